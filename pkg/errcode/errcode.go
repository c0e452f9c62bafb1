package errcode

import (
	"errors"

	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBDropTableError
	DBEmptyDatabaseError

	// Schema errors
	SchemaCreateError
	SchemaMigrateError

	// CSV errors
	CSVDecodeError
	CSVEncodeError

	// Request errors
	ValidationError
	NotFoundError
	UnauthenticatedError
	UnauthorizedError
	ConflictError

	// Store errors
	StoreError

	// Server errors
	ServerError
)

// Of returns the code of the first *gn.Error found in the error chain,
// or UnknownError if there is none.
func Of(err error) gn.ErrorCode {
	if err == nil {
		return UnknownError
	}
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		return gnErr.Code
	}
	return UnknownError
}
