package utils

import "errors"

var (
	ErrorRecordNotFound   = errors.New("record not found")
	ErrorNotAuthenticated = errors.New("not authenticated")
	ErrorNoSelection      = errors.New("nothing selected")
)
