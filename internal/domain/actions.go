package domain

import "context"

// ShareTarget selects how a share request is fulfilled
type ShareTarget string

const (
	ShareTargetNone      ShareTarget = ""          // sheet dismissed
	ShareTargetClipboard ShareTarget = "clipboard" // copy message to clipboard
	ShareTargetBrowser   ShareTarget = "browser"   // open URL in the system handler
)

// ShareRequest is the payload handed to a share facility
type ShareRequest struct {
	Message string
	URL     string
}

// ShareAction is the outcome tag of a share attempt
type ShareAction int

const (
	ShareActionShared ShareAction = iota
	ShareActionDismissed
)

// ShareOutcome reports what happened to a share request.
// Activity is set when the facility knows which channel carried the share.
type ShareOutcome struct {
	Action   ShareAction
	Activity string
}

// String returns the log-friendly outcome tag
func (o ShareOutcome) String() string {
	switch {
	case o.Action == ShareActionDismissed:
		return "dismissed"
	case o.Activity != "":
		return "shared-with-activity"
	default:
		return "shared-plain"
	}
}

// Sharer hands a share request to one delivery channel
type Sharer interface {
	Share(ctx context.Context, target ShareTarget, req ShareRequest) (ShareOutcome, error)
}

// Permission identifies a platform capability that must be granted
type Permission string

const PermissionWriteStorage Permission = "write_storage"

// Rationale is the user-facing explanation shown with a permission request
type Rationale struct {
	Title   string
	Message string
}

// PermissionStatus is the answer to a permission request
type PermissionStatus int

const (
	PermissionDenied PermissionStatus = iota
	PermissionGranted
)

// PermissionRequester asks the platform for a permission
type PermissionRequester interface {
	Request(ctx context.Context, perm Permission, rationale Rationale) (PermissionStatus, error)
}

// TransferResult is what a transfer reports back
type TransferResult struct {
	StatusCode int
	Bytes      int64
}

// Transferer copies a remote resource to a local path
type Transferer interface {
	Transfer(ctx context.Context, sourceURL, destPath string) (TransferResult, error)
}

// NoticeKind classifies a user-visible notice
type NoticeKind int

const (
	NoticeSuccess NoticeKind = iota
	NoticeFailed
	NoticePermissionDenied
	NoticeError
)

// Notice is a user-visible alert (title + message)
type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
	Path    string // destination path, set for downloads
}

// IsError reports whether the notice should render as an error
func (n Notice) IsError() bool {
	return n.Kind != NoticeSuccess
}
