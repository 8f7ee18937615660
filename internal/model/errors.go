package model

import "fmt"

// ErrorKind identifies the class of failure raised by a pipeline stage,
// per the taxonomy in spec.md §7.
type ErrorKind string

const (
	KindSourceUnreadable   ErrorKind = "SourceUnreadable"
	KindEngineError        ErrorKind = "EngineError"
	KindNoSpeechDetected   ErrorKind = "NoSpeechDetected"
	KindTranscriptionFailed ErrorKind = "TranscriptionFailed"
	KindMissingCredential  ErrorKind = "MissingCredential"
	KindOracleProtocol     ErrorKind = "OracleProtocol"
	KindOracleParse        ErrorKind = "OracleParse"
	KindOracleShape        ErrorKind = "OracleShape"
	KindOverrideInvalid    ErrorKind = "OverrideInvalid"
	KindExportError        ErrorKind = "ExportError"
)

// EngineSubKind further classifies an EngineError, per spec.md §4.A.
type EngineSubKind string

const (
	EngineLoadFailed EngineSubKind = "LoadFailed"
	EngineExecFailed EngineSubKind = "ExecFailed"
	EngineTimeout    EngineSubKind = "Timeout"
	EngineFileSystem EngineSubKind = "FileSystem"
)

// PipelineError is the single error type surfaced by every stage of the
// core. The session driver maps Kind to an exit code (spec.md §6) and a
// Failed-state message.
type PipelineError struct {
	Kind    ErrorKind
	Sub     EngineSubKind // only meaningful when Kind == KindEngineError
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Sub != "" {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Sub, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewEngineError builds a PipelineError for a media-engine adapter failure.
func NewEngineError(sub EngineSubKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: KindEngineError, Sub: sub, Message: message, Err: err}
}

// NewError builds a plain PipelineError of the given kind.
func NewError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// ExitCode maps a PipelineError's Kind to the CLI exit code from spec.md §6.
func ExitCode(err error) int {
	var pe *PipelineError
	if !asPipelineError(err, &pe) {
		return 1
	}
	switch pe.Kind {
	case KindNoSpeechDetected:
		return 2
	case KindEngineError, KindSourceUnreadable:
		return 3
	case KindMissingCredential, KindOracleProtocol, KindOracleParse, KindOracleShape:
		return 4
	default:
		return 1
	}
}

func asPipelineError(err error, target **PipelineError) bool {
	for err != nil {
		if pe, ok := err.(*PipelineError); ok {
			*target = pe
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
