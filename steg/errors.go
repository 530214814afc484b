package steg

import "errors"

var (
	// ErrEncoding is returned when text cannot be turned into framed bytes.
	ErrEncoding = errors.New("steg: text could not be encoded")
	// ErrMessageNotFound is returned when no segment of a decoded bit tensor
	// yields a message.
	ErrMessageNotFound = errors.New("steg: no message could be recovered from this image")
	// ErrInvalidShape is returned for non-positive payload dimensions.
	ErrInvalidShape = errors.New("steg: invalid payload shape")
)
