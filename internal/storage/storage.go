// Package storage routes file operations between local filesystem
// storage and a remote S3 bucket. The Router owns backend selection,
// the mapping between logical filenames, absolute local paths, and
// remote object keys, and the save/delete/find/download operations,
// which behave identically in shape on both backends.
package storage

import (
	"context"
	"io"
	"os"
)

// KindS3 is the identifier of the only supported remote backend kind.
// An empty kind selects local filesystem storage.
const KindS3 = "s3"

// KindLocal is the identifier reported by the local backend variant.
const KindLocal = "local"

const (
	// DefaultACL is the canned ACL applied to remote writes when none
	// is configured.
	DefaultACL = "public-read"

	// DefaultDirPerm is the permission mask for newly created
	// directories when none is configured. Execute bits are OR'd in
	// when directories are actually created.
	DefaultDirPerm os.FileMode = 0o666
)

// Config holds everything a Router needs to select a backend and map
// paths. The zero value is not usable: BasePath is required for any
// path-dependent operation, and StaticRootParent for any remote one.
// Config may be changed between calls; the selection rule is
// re-evaluated on every operation.
type Config struct {
	// Kind is "" for local storage or KindS3 for remote storage.
	// Any other value is a configuration error.
	Kind string

	// Bucket is the remote bucket name. Remote operation requires it;
	// with Kind set but Bucket empty, operations fall back to local
	// storage.
	Bucket string

	// AccessKeyID and SecretAccessKey authenticate against the remote
	// backend.
	AccessKeyID     string
	SecretAccessKey string

	// Region and Endpoint select the remote backend location. Region
	// defaults to us-east-1; an empty Endpoint uses the AWS default.
	Region   string
	Endpoint string

	// ACL is the canned ACL applied to remote writes. Defaults to
	// DefaultACL.
	ACL string

	// BasePath supplies the local base directory joined with logical
	// filenames. It is resolved at call time on every operation.
	BasePath PathProvider

	// StaticRootParent is the prefix removed from an absolute local
	// path to derive the remote object key.
	StaticRootParent string

	// DirPerm is the permission mask for directories created under
	// BasePath. Defaults to DefaultDirPerm.
	DirPerm os.FileMode
}

func (c Config) acl() string {
	if c.ACL == "" {
		return DefaultACL
	}
	return c.ACL
}

func (c Config) dirPerm() os.FileMode {
	if c.DirPerm == 0 {
		return DefaultDirPerm
	}
	return c.DirPerm
}

// Result reports where and how a save landed. The caller merges it
// into its own model; the Router never mutates caller-owned records.
// A Result is only produced after the operation fully succeeded.
type Result struct {
	// Filename is the logical filename the content was saved under,
	// for both backends.
	Filename string

	// StorageKind is KindS3 for remote saves and empty for local
	// ones, so a record can remember which backend last stored it.
	StorageKind string

	// BucketName is the bucket written to for remote saves, empty for
	// local ones.
	BucketName string

	// Filesize is the exact byte size of the stored content.
	Filesize int64
}

// Entry is one item returned by a find operation. For local entries
// Path is an absolute filesystem path; for remote entries it is the
// object key. Size is only populated for remote entries.
type Entry struct {
	Path   string
	Size   int64
	Remote bool
}

// DeleteTarget identifies what a Delete call should remove. Construct
// one with Filename or RemoteHandle.
type DeleteTarget struct {
	filename string
}

// Filename targets a logical filename, resolved through the base path
// the same way Save resolves it.
func Filename(name string) DeleteTarget {
	return DeleteTarget{filename: name}
}

// RemoteHandle targets a remote object by its key, as reported in a
// remote Entry. The key resolves as an absolute filename so the
// derived remote key matches the stored one.
func RemoteHandle(name string) DeleteTarget {
	return DeleteTarget{filename: "/" + name}
}

// Backend is a resolved backend handle, produced by the selection rule
// once per operation. Exactly two variants exist: local filesystem and
// S3.
type Backend interface {
	// Save copies content, positioned anywhere, to the resolved
	// destination for filename.
	Save(ctx context.Context, content io.ReadSeeker, filename string) (*Result, error)

	// Delete removes the file resolved from filename. Deleting a
	// missing file is a silent no-op.
	Delete(ctx context.Context, filename string) error

	// FindByPath returns all entries whose path or key starts with
	// prefix, taken as-is. An empty result is not an error.
	FindByPath(ctx context.Context, prefix string) ([]Entry, error)

	// Download guarantees a local filesystem copy of e and returns its
	// path.
	Download(ctx context.Context, e Entry) (string, error)

	// Kind returns KindLocal or KindS3.
	Kind() string
}
