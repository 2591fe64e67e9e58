package errors

import "net/http"

const (
	CodeInvalidCoordinate = "INVALID_COORDINATE"
	CodeInvalidArgument   = "INVALID_ARGUMENT"
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeInvalidDocument   = "INVALID_DOCUMENT"
	CodeProjectNotFound   = "PROJECT_NOT_FOUND"
	CodeProjectExists     = "PROJECT_EXISTS"
	CodeDatabaseError     = "DATABASE_ERROR"
	CodeCacheError        = "CACHE_ERROR"
	CodeInternalServer    = "INTERNAL_SERVER_ERROR"
)

var (
	ErrInvalidCoordinate = New(
		CodeInvalidCoordinate,
		"Invalid tile coordinate",
		http.StatusBadRequest,
	)

	ErrInvalidArgument = New(
		CodeInvalidArgument,
		"Invalid argument",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		CodeInvalidRequest,
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInvalidDocument = New(
		CodeInvalidDocument,
		"Invalid project document",
		http.StatusBadRequest,
	)

	ErrProjectNotFound = New(
		CodeProjectNotFound,
		"Project not found",
		http.StatusNotFound,
	)

	ErrProjectExists = New(
		CodeProjectExists,
		"Project already exists",
		http.StatusConflict,
	)

	ErrDatabaseError = New(
		CodeDatabaseError,
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		CodeCacheError,
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		CodeInternalServer,
		"Internal server error",
		http.StatusInternalServerError,
	)
)
