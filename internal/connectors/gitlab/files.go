package gitlab

import (
	"context"
	"fmt"

	gl "github.com/xanzy/go-gitlab"

	"github.com/custodia-labs/reporeader/internal/connectors/filetype"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/logger"
)

// Tree node kinds returned by the repository tree API.
const (
	nodeTree = "tree"
	nodeBlob = "blob"
)

// frame is one folder level on the traversal stack.
type frame struct {
	nodes []*gl.TreeNode
	next  int
}

// listFiles walks the location's folder depth-first. Files appear in the
// order a recursive walk would produce them. A failing sub-folder is
// skipped and reported through a PartialListingError.
func listFiles(ctx context.Context, client *Client, location string, allowList []string) ([]domain.RemoteFile, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	root, err := client.ListTree(ctx, loc.Project, loc.Branch, loc.Folder)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("list %s: %w: %w", loc, domain.ErrNotFound, err)
		}
		return nil, fmt.Errorf("list %s: %w", loc, err)
	}

	var (
		files  []domain.RemoteFile
		failed []domain.FolderError
		stack  = []*frame{{nodes: root}}
	)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		top := stack[len(stack)-1]
		if top.next >= len(top.nodes) {
			stack = stack[:len(stack)-1]
			continue
		}
		node := top.nodes[top.next]
		top.next++

		switch node.Type {
		case nodeTree:
			children, err := client.ListTree(ctx, loc.Project, loc.Branch, node.Path)
			if err != nil {
				logger.Warn("gitlab: skipping folder %s in %s: %v", node.Path, loc, err)
				failed = append(failed, domain.FolderError{Folder: node.Path, Err: err})
				continue
			}
			stack = append(stack, &frame{nodes: children})
		case nodeBlob:
			if !filetype.Allowed(node.Path, allowList) {
				continue
			}
			files = append(files, domain.RemoteFile{
				Reader:   ReaderName,
				Location: location,
				Path:     node.Path,
			})
		}
	}

	logger.Debug("gitlab: %d files listed under %s", len(files), loc)

	if len(failed) > 0 {
		return files, &domain.PartialListingError{Failed: failed}
	}
	return files, nil
}

// fetchFile retrieves one file's raw content.
func fetchFile(ctx context.Context, client *Client, file domain.RemoteFile) (*domain.RawDocument, error) {
	loc, err := ParseLocation(file.Location)
	if err != nil {
		return nil, err
	}

	body, err := client.GetRawFile(ctx, loc.Project, loc.Branch, file.Path)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", file.Path, err)
	}

	uri := buildFileURI(loc, file.Path)
	raw := &domain.RawDocument{
		Reader:   ReaderName,
		URI:      uri,
		Name:     file.Path,
		Path:     file.Path,
		MIMEType: filetype.DetectMIMEType(file.Path),
		Metadata: map[string]any{
			"uri":     uri,
			"project": loc.Project,
			"branch":  loc.Branch,
			"path":    file.Path,
			"size":    len(body),
			"web_url": buildWebURL(client.WebBaseURL(), loc, file.Path),
		},
	}
	raw.Link = ResolveWebURL(raw.URI, raw.Metadata)

	if filetype.IsBinary(file.Path) {
		raw.Content = domain.EncodeBinary(body)
		raw.Binary = true
	} else {
		raw.Content = string(body)
	}
	return raw, nil
}
