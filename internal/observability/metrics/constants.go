// Package metrics provides constants used across metric definitions.
package metrics

// Operation type constants, used as the operation argument of Recorder.
const (
	// OpPrediction is one classifier invocation.
	OpPrediction = "prediction"
	// OpModelLoad is loading the classifier model.
	OpModelLoad = "model_load"
	// OpPlay is starting playback of a clip.
	OpPlay = "play"
	// OpStop is an explicit stop.
	OpStop = "stop"
	// OpPreempt is a play that interrupted another clip.
	OpPreempt = "preempt"
	// OpIndexBuild is one full scan of the audio tree.
	OpIndexBuild = "index_build"
)

// Status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error type label values
const (
	ErrorTypeNotFound   = "not_found"
	ErrorTypeContract   = "contract"
	ErrorTypeValidation = "validation"
	ErrorTypeFileIO     = "file_io"
	ErrorTypeModel      = "model"
	ErrorTypeAudio      = "audio"
	ErrorTypeCanceled   = "canceled"
	ErrorTypeUnknown    = "unknown"
)
