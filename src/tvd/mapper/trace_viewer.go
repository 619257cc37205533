package mapper

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/gofrs/uuid"
	"github.com/tracelens/trace-lsp/src/tvd/entity"
	"github.com/tracelens/trace-lsp/src/tvd/internal/errors"
	"github.com/tracelens/trace-lsp/src/tvd/model"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// SessionToModel maps a Session entity to its model equivalent.
func SessionToModel(f *entity.Session) *model.Session {
	return &model.Session{
		UUID:             f.UUID,
		InitializeParams: f.InitializeParams,
		Conn:             f.Conn,
		WorkspaceRoot:    f.WorkspaceRoot,
		Env:              f.Env,
		ViewerEnabled:    f.ViewerEnabled,
		Remote:           f.Remote,
	}
}

// ModelToSession maps a model Session to its entity equivalent.
func ModelToSession(f *model.Session) (*entity.Session, error) {
	return &entity.Session{
		UUID:             f.UUID,
		InitializeParams: f.InitializeParams,
		Conn:             f.Conn,
		WorkspaceRoot:    f.WorkspaceRoot,
		Env:              f.Env,
		ViewerEnabled:    f.ViewerEnabled,
		Remote:           f.Remote,
	}, nil
}

// UUIDToSession initializes a new Session entity with the assigned uuid and connection.
func UUIDToSession(u uuid.UUID, c *jsonrpc2.Conn) *entity.Session {
	return &entity.Session{
		UUID:          u,
		Conn:          c,
		ViewerEnabled: true,
	}
}

// ContextToSessionUUID extracts the UUID from a context
func ContextToSessionUUID(c context.Context) (uuid.UUID, error) {
	s, ok := c.Value(entity.SessionContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, &errors.NoSessionFoundError{}
	}
	return s, nil
}

// PopulateSettingsSection extracts the named section from a didChangeConfiguration
// payload into dst, leaving fields absent from the payload untouched.
// Returns false when the payload carries no such section.
func PopulateSettingsSection(settings interface{}, section string, dst *entity.ViewerSettings) (bool, error) {
	if settings == nil {
		return false, nil
	}
	raw, err := json.Marshal(settings)
	if err != nil {
		return false, err
	}
	sections := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &sections); err != nil {
		return false, err
	}
	block, ok := sections[section]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(block, dst); err != nil {
		return false, err
	}
	return true, nil
}

// WorkspaceFoldersToRoot resolves the session workspace root from the folders
// sent during initialization. The first folder wins when several are open.
func WorkspaceFoldersToRoot(folders []protocol.WorkspaceFolder) string {
	for _, folder := range folders {
		if path := ArtifactToPath(folder.URI); path != "" {
			return path
		}
	}
	return ""
}

// ArtifactToPath normalizes an artifact reference into a cleaned filesystem path.
// The reference may be a file URI (as sent by IDE commands) or a plain path.
func ArtifactToPath(artifact string) string {
	if artifact == "" {
		return ""
	}
	if strings.HasPrefix(artifact, "file://") {
		return uri.New(artifact).Filename()
	}
	return filepath.Clean(artifact)
}
