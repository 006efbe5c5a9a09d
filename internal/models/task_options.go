package models

// TaskOption - функция частичного обновления: меняет ровно одно поле задачи.
// Поля, для которых опция не передана, остаются нетронутыми.
type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description *string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithStatus(status Status) TaskOption {
	return func(task *Task) {
		task.Status = status
	}
}

func WithPriority(priority Priority) TaskOption {
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDueDate(dueDate *string) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}
