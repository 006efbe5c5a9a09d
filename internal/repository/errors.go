package repository

import "errors"

var ErrNotFound = errors.New("запись не найдена")
var ErrUsernameTaken = errors.New("имя пользователя занято")
var ErrEmailTaken = errors.New("email уже зарегистрирован")
