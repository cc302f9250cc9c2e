package gerrit

// ChangeInfo is the subset of Gerrit's ChangeInfo entity quill uses.
type ChangeInfo struct {
	ID              string `json:"id"`
	Number          int    `json:"_number"`
	Project         string `json:"project"`
	Branch          string `json:"branch"`
	Subject         string `json:"subject"`
	Status          string `json:"status"`
	CurrentRevision string `json:"current_revision"`
}

// FileInfo is Gerrit's per-file entry in a revision's file list.
type FileInfo struct {
	Status        string `json:"status,omitempty"`
	Binary        bool   `json:"binary,omitempty"`
	LinesInserted int    `json:"lines_inserted,omitempty"`
	LinesDeleted  int    `json:"lines_deleted,omitempty"`
}

// FileEntry pairs a path with its FileInfo.
type FileEntry struct {
	Path string
	Info FileInfo
}

// Deleted reports whether the file no longer exists in the revision.
func (f FileEntry) Deleted() bool { return f.Info.Status == "D" }

// CommentInput is a single inline comment.
type CommentInput struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ReviewInput is the body posted to the review endpoint.
type ReviewInput struct {
	Message  string                    `json:"message,omitempty"`
	Tag      string                    `json:"tag,omitempty"`
	Comments map[string][]CommentInput `json:"comments,omitempty"`
}

// Magic files Gerrit lists alongside real paths.
const (
	CommitMsgPath     = "/COMMIT_MSG"
	MergeListPath     = "/MERGE_LIST"
	PatchsetLevelPath = "/PATCHSET_LEVEL"
)

// IsMagicPath reports whether path is one of Gerrit's synthetic files.
func IsMagicPath(path string) bool {
	switch path {
	case CommitMsgPath, MergeListPath, PatchsetLevelPath:
		return true
	}
	return false
}
