package gerrit

import "context"

// Fetcher retrieves raw file bodies of a revision. *Client implements it.
type Fetcher interface {
	Patch(ctx context.Context, changeID, revision, path string) ([]byte, error)
	Content(ctx context.Context, changeID, revision, path string) ([]byte, error)
}

// FileSource serves patch and content bodies for the files of one revision.
// It satisfies extract.Source.
type FileSource struct {
	Client   Fetcher
	ChangeID string
	Revision string
}

func (s FileSource) Patch(ctx context.Context, path string) ([]byte, error) {
	return s.Client.Patch(ctx, s.ChangeID, s.Revision, path)
}

func (s FileSource) Content(ctx context.Context, path string) ([]byte, error) {
	return s.Client.Content(ctx, s.ChangeID, s.Revision, path)
}
