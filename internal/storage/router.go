package storage

import (
	"context"
	"io"
	"path/filepath"

	"github.com/filedepot/filedepot/internal/storage/local"
	s3store "github.com/filedepot/filedepot/internal/storage/s3"
)

// Router selects a storage backend per operation and maps logical
// filenames to local paths and remote object keys. Behavior is a pure
// function of Config and call arguments: there is no hidden state, no
// caching, and no connection reuse across calls, so independently
// configured Routers may run concurrently without interference.
type Router struct {
	// Config may be modified between calls. The selection rule is
	// re-evaluated on every operation.
	Config Config
}

// New validates the configured kind and returns a Router. An
// unsupported kind fails immediately with a ConfigError, before any
// operation is attempted.
func New(cfg Config) (*Router, error) {
	if cfg.Kind != "" && cfg.Kind != KindS3 {
		return nil, errUnsupportedKind(cfg.Kind)
	}
	return &Router{Config: cfg}, nil
}

// Backend applies the selection rule to the current configuration and
// returns the resolved backend handle. Kind unset or bucket unset
// selects local storage; that fallback is not an error. A set kind
// other than KindS3 is a ConfigError carrying the offending value.
func (r *Router) Backend() (Backend, error) {
	cfg := r.Config
	if cfg.Kind == "" || cfg.Bucket == "" {
		return &localBackend{cfg: cfg}, nil
	}
	if cfg.Kind != KindS3 {
		return nil, errUnsupportedKind(cfg.Kind)
	}
	return &s3Backend{cfg: cfg}, nil
}

// Save persists content under the logical filename on the selected
// backend and reports where it landed. The content reader is reset to
// the start before copying.
func (r *Router) Save(ctx context.Context, content io.ReadSeeker, filename string) (*Result, error) {
	b, err := r.Backend()
	if err != nil {
		return nil, err
	}
	return b.Save(ctx, content, filename)
}

// Delete removes the target from the selected backend. Deleting a
// missing file or object is a silent no-op, so Delete is idempotent.
func (r *Router) Delete(ctx context.Context, target DeleteTarget) error {
	b, err := r.Backend()
	if err != nil {
		return err
	}
	return b.Delete(ctx, target.filename)
}

// FindByPath returns all entries whose local path or remote key starts
// with prefix, taken as-is. An empty result is not an error.
func (r *Router) FindByPath(ctx context.Context, prefix string) ([]Entry, error) {
	b, err := r.Backend()
	if err != nil {
		return nil, err
	}
	return b.FindByPath(ctx, prefix)
}

// FindByFilename resolves filename through the local-path join and
// finds entries under the resulting prefix.
func (r *Router) FindByFilename(ctx context.Context, filename string) ([]Entry, error) {
	b, err := r.Backend()
	if err != nil {
		return nil, err
	}
	path, err := r.Config.localPath(filename)
	if err != nil {
		return nil, err
	}
	return b.FindByPath(ctx, path)
}

// Download guarantees a local filesystem copy of a found entry and
// returns its path. For local entries this is a no-op.
func (r *Router) Download(ctx context.Context, e Entry) (string, error) {
	b, err := r.Backend()
	if err != nil {
		return "", err
	}
	return b.Download(ctx, e)
}

// localBackend is the local filesystem variant of Backend.
type localBackend struct {
	cfg Config
}

func (b *localBackend) Kind() string { return KindLocal }

func (b *localBackend) store() local.Store {
	return local.Store{DirPerm: b.cfg.dirPerm()}
}

func (b *localBackend) Save(_ context.Context, content io.ReadSeeker, filename string) (*Result, error) {
	path, err := b.cfg.localPath(filename)
	if err != nil {
		return nil, err
	}
	size, err := b.store().Write(path, content)
	if err != nil {
		return nil, err
	}
	// StorageKind and BucketName stay empty: a local save clears any
	// remote provenance the caller's record may remember.
	return &Result{Filename: filename, Filesize: size}, nil
}

func (b *localBackend) Delete(_ context.Context, filename string) error {
	path, err := b.cfg.localPath(filename)
	if err != nil {
		return err
	}
	return b.store().Remove(path)
}

func (b *localBackend) FindByPath(_ context.Context, prefix string) ([]Entry, error) {
	paths, err := b.store().ListPrefix(prefix)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, Entry{Path: p})
	}
	return entries, nil
}

func (b *localBackend) Download(_ context.Context, e Entry) (string, error) {
	// Already on the local filesystem.
	return e.Path, nil
}

// s3Backend is the remote variant of Backend. Each operation resolves
// its key first, then opens its own connection, so configuration
// errors surface before any network I/O.
type s3Backend struct {
	cfg Config
}

func (b *s3Backend) Kind() string { return KindS3 }

func (b *s3Backend) connect(ctx context.Context) (*s3store.Store, error) {
	return s3store.Connect(ctx, s3store.Config{
		Bucket:          b.cfg.Bucket,
		AccessKeyID:     b.cfg.AccessKeyID,
		SecretAccessKey: b.cfg.SecretAccessKey,
		Region:          b.cfg.Region,
		Endpoint:        b.cfg.Endpoint,
		ACL:             b.cfg.acl(),
	})
}

func (b *s3Backend) Save(ctx context.Context, content io.ReadSeeker, filename string) (*Result, error) {
	key, err := b.cfg.remoteKey(filename)
	if err != nil {
		return nil, err
	}
	st, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}
	size, err := st.Upload(ctx, key, content)
	if err != nil {
		return nil, err
	}
	return &Result{
		Filename:    filename,
		StorageKind: KindS3,
		BucketName:  b.cfg.Bucket,
		Filesize:    size,
	}, nil
}

func (b *s3Backend) Delete(ctx context.Context, filename string) error {
	key, err := b.cfg.remoteKey(filename)
	if err != nil {
		return err
	}
	st, err := b.connect(ctx)
	if err != nil {
		return err
	}
	return st.Delete(ctx, key)
}

func (b *s3Backend) FindByPath(ctx context.Context, prefix string) ([]Entry, error) {
	key, err := b.cfg.keyFromPath(prefix)
	if err != nil {
		return nil, err
	}
	st, err := b.connect(ctx)
	if err != nil {
		return nil, err
	}
	objects, err := st.ListPrefix(ctx, key)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(objects))
	for _, o := range objects {
		entries = append(entries, Entry{Path: o.Key, Size: o.Size, Remote: true})
	}
	return entries, nil
}

func (b *s3Backend) Download(ctx context.Context, e Entry) (string, error) {
	if !e.Remote {
		return e.Path, nil
	}
	if b.cfg.StaticRootParent == "" {
		return "", errMissingStaticRoot()
	}
	dest := filepath.Join(b.cfg.StaticRootParent, e.Path)
	st, err := b.connect(ctx)
	if err != nil {
		return "", err
	}
	if err := st.Download(ctx, e.Path, dest); err != nil {
		return "", err
	}
	return dest, nil
}
