package geodata

// UpdateResult is the outcome of an update_version run, decoded from the
// script's exit code.
type UpdateResult int

// Update results in exit code order.
const (
	ResultSuccess UpdateResult = iota
	ResultFailed
	ResultAlreadyUpdating
	ResultAlreadyLatest
	ResultUnknown
)

// ResultFromCode maps an exit code to an UpdateResult.
func ResultFromCode(code int) UpdateResult {
	switch code {
	case 0:
		return ResultSuccess
	case 1:
		return ResultFailed
	case 2:
		return ResultAlreadyUpdating
	case 3:
		return ResultAlreadyLatest
	default:
		return ResultUnknown
	}
}

// String returns a stable machine-readable name.
func (r UpdateResult) String() string {
	switch r {
	case ResultSuccess:
		return "success"
	case ResultFailed:
		return "failed"
	case ResultAlreadyUpdating:
		return "already_updating"
	case ResultAlreadyLatest:
		return "already_latest"
	default:
		return "unknown_error"
	}
}

// Message returns the text shown under the update button. ResultUnknown has
// none; the button keeps whatever description it had.
func (r UpdateResult) Message() string {
	switch r {
	case ResultSuccess:
		return "Successfully updated"
	case ResultFailed:
		return "Update failed"
	case ResultAlreadyUpdating:
		return "Already in updating"
	case ResultAlreadyLatest:
		return "Already at the latest version"
	default:
		return ""
	}
}
