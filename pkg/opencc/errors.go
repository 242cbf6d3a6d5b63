package opencc

import (
	"errors"
	"fmt"
)

// 错误类别，可用 errors.Is 判断
var (
	ErrConfigLoad    = errors.New("cannot use this config file path")
	ErrNotADirectory = errors.New("the path of static dictionaries needs to be a directory")
	ErrCreate        = errors.New("cannot create a new file or directory")
	ErrCorruptAsset  = errors.New("the dictionary is not correct")
	ErrWrite         = errors.New("cannot write data to a file")
	ErrConvert       = errors.New("conversion failed")
	ErrRelease       = errors.New("cannot release the engine")
	ErrClosed        = errors.New("converter already closed")
	ErrUnknownPreset = errors.New("unknown preset")
)

// Error 记录一次失败的操作、目标路径、错误类别和底层原因
type Error struct {
	Op   string // open, convert, mkdir, materialize ...
	Path string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := "opencc: " + e.Op
	if e.Path != "" {
		msg += " " + e.Path
	}
	msg += ": " + e.Kind.Error()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap 同时暴露错误类别与底层原因
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func newError(op, path string, kind, err error) *Error {
	return &Error{Op: op, Path: path, Kind: kind, Err: err}
}

// nativeError 包装引擎自身给出的错误信息
type nativeError string

func (e nativeError) Error() string { return string(e) }

func wrapf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{kind}, args...)...)
}
