package storage

import (
	"errors"
	"testing"
)

func TestLocalPathJoin(t *testing.T) {
	cfg := Config{BasePath: StaticPath("/tmp/x")}

	tests := []struct {
		filename string
		expected string
	}{
		{"a.txt", "/tmp/x/a.txt"},
		{"a/b.txt", "/tmp/x/a/b.txt"},
		{"/var/static/a.txt", "/var/static/a.txt"}, // absolute filename wins
	}

	for _, tt := range tests {
		got, err := cfg.localPath(tt.filename)
		if err != nil {
			t.Fatalf("localPath(%s): %v", tt.filename, err)
		}
		if got != tt.expected {
			t.Errorf("localPath(%s) = %s, want %s", tt.filename, got, tt.expected)
		}
	}
}

func TestRemoteKeyDerivation(t *testing.T) {
	tests := []struct {
		name       string
		basePath   string
		staticRoot string
		filename   string
		expected   string
	}{
		{
			name:       "leading slash stripped",
			basePath:   "/var/static/uploads",
			staticRoot: "/var/static",
			filename:   "img/1.png",
			expected:   "uploads/img/1.png",
		},
		{
			name:       "root equals base",
			basePath:   "/srv/files",
			staticRoot: "/srv/files",
			filename:   "doc.pdf",
			expected:   "doc.pdf",
		},
		{
			name:       "root not present leaves path trimmed",
			basePath:   "/var/static/uploads",
			staticRoot: "/media",
			filename:   "img/1.png",
			expected:   "var/static/uploads/img/1.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				BasePath:         StaticPath(tt.basePath),
				StaticRootParent: tt.staticRoot,
			}
			got, err := cfg.remoteKey(tt.filename)
			if err != nil {
				t.Fatalf("remoteKey(%s): %v", tt.filename, err)
			}
			if got != tt.expected {
				t.Errorf("remoteKey(%s) = %q, want %q", tt.filename, got, tt.expected)
			}
		})
	}
}

func TestPathFuncResolvedAtCallTime(t *testing.T) {
	base := "/first"
	cfg := Config{BasePath: PathFunc(func() string { return base })}

	got, err := cfg.localPath("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/first/f.txt" {
		t.Errorf("localPath = %s, want /first/f.txt", got)
	}

	base = "/second"
	got, err = cfg.localPath("f.txt")
	if err != nil {
		t.Fatal(err)
	}
	if got != "/second/f.txt" {
		t.Errorf("localPath after mutation = %s, want /second/f.txt", got)
	}
}

func TestMissingBasePath(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{BasePath: StaticPath("")},
	} {
		_, err := cfg.localPath("f.txt")
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("localPath with config %+v: got %v, want ConfigError", cfg, err)
		}
	}
}

func TestMissingStaticRootParent(t *testing.T) {
	cfg := Config{BasePath: StaticPath("/tmp/x")}

	_, err := cfg.remoteKey("f.txt")
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("remoteKey without static root: got %v, want ConfigError", err)
	}
}
