package github

import (
	"context"
	"fmt"

	"github.com/custodia-labs/reporeader/internal/connectors/filetype"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// listFiles lists allow-listed blobs under the location's folder.
func listFiles(ctx context.Context, client *Client, location string, allowList []string) ([]domain.RemoteFile, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	tree, err := client.GetTree(ctx, loc.Owner, loc.Repo, loc.Branch)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("list %s: %w: %w", loc, domain.ErrNotFound, err)
		}
		return nil, fmt.Errorf("list %s: %w", loc, err)
	}

	if tree.GetTruncated() {
		logger.Warn("github: tree for %s is truncated, some files will be missing", loc)
	}

	files := make([]domain.RemoteFile, 0, len(tree.Entries))
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}

		path := entry.GetPath()
		if !filetype.InFolder(path, loc.Folder) || !filetype.Allowed(path, allowList) {
			continue
		}

		files = append(files, domain.RemoteFile{
			Reader:   ReaderName,
			Location: location,
			Path:     path,
		})
	}

	logger.Debug("github: %d files listed under %s", len(files), loc)
	return files, nil
}

// fetchFile retrieves one file through the Contents API.
func fetchFile(ctx context.Context, client *Client, file domain.RemoteFile) (*domain.RawDocument, error) {
	loc, err := ParseLocation(file.Location)
	if err != nil {
		return nil, err
	}

	content, err := client.GetContents(ctx, loc.Owner, loc.Repo, file.Path, loc.Branch)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", file.Path, err)
	}

	path := content.GetPath()
	if path == "" {
		path = file.Path
	}

	uri := buildFileURI(loc, path)
	raw := &domain.RawDocument{
		Reader:   ReaderName,
		URI:      uri,
		Name:     file.Path,
		Path:     path,
		MIMEType: filetype.DetectMIMEType(file.Path),
		Metadata: map[string]any{
			"uri":      uri,
			"owner":    loc.Owner,
			"repo":     loc.Repo,
			"branch":   loc.Branch,
			"path":     path,
			"sha":      content.GetSHA(),
			"size":     content.GetSize(),
			"html_url": content.GetHTMLURL(),
		},
	}
	// Enterprise hosts can omit html_url; fall back to the public web path.
	raw.Link = ResolveWebURL(raw.URI, raw.Metadata)

	if filetype.IsBinary(file.Path) {
		body, err := client.Download(ctx, content.GetDownloadURL())
		if err != nil {
			return nil, fmt.Errorf("download %s: %w", file.Path, err)
		}
		raw.Content = domain.EncodeBinary(body)
		raw.Binary = true
		return raw, nil
	}

	text, err := content.GetContent()
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", file.Path, err)
	}
	raw.Content = text
	return raw, nil
}
