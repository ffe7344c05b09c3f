package service

import "errors"

var (
	ErrCaptchaRequired      = errors.New("captcha required")
	ErrCaptchaInvalid       = errors.New("captcha invalid")
	ErrCaptchaConfigInvalid = errors.New("captcha config invalid")
	ErrCaptchaVerifyFailed  = errors.New("captcha verify failed")

	ErrFormSessionNotFound  = errors.New("form session not found")
	ErrFormFieldInvalid     = errors.New("form field invalid")
	ErrSubmissionInProgress = errors.New("submission in progress")
	ErrFormSessionSave      = errors.New("form session save failed")
)
