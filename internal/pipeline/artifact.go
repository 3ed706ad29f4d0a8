package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"stubgen/internal/model"
)

// DefaultNamespace is the artifact directory used when none is configured.
const DefaultNamespace = "stubgen"

// artifactSuffix ends every document file name.
const artifactSuffix = "-api-stub.json"

// DirSink writes each document as <Dir>/<Namespace>/<uuid>-api-stub.json.
type DirSink struct {
	Dir       string
	Namespace string
}

// Write implements Sink.
func (s DirSink) Write(ctx context.Context, doc *model.ApiStubDocument) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ns := s.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	dir := filepath.Join(s.Dir, ns)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating %s", dir)
	}

	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, uuid.NewString()+artifactSuffix)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	return path, nil
}

// MemorySink keeps written documents in memory.
type MemorySink struct {
	mu   sync.Mutex
	docs []*model.ApiStubDocument
}

// Write implements Sink.
func (s *MemorySink) Write(_ context.Context, doc *model.ApiStubDocument) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = append(s.docs, doc)
	return "memory://" + uuid.NewString(), nil
}

// Documents returns the documents written so far.
func (s *MemorySink) Documents() []*model.ApiStubDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*model.ApiStubDocument(nil), s.docs...)
}

// Encode serializes doc in the artifact format.
func Encode(doc *model.ApiStubDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return append(data, '\n'), nil
}

// ReadDocument loads a document written by DirSink.
func ReadDocument(path string) (*model.ApiStubDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	var doc model.ApiStubDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return &doc, nil
}

// Latest returns the most recently modified document under dir/namespace.
func Latest(dir, namespace string) (string, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	root := filepath.Join(dir, namespace)
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", root)
	}

	type candidate struct {
		path string
		mod  int64
	}
	var found []candidate
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), artifactSuffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", err
		}
		found = append(found, candidate{filepath.Join(root, e.Name()), info.ModTime().UnixNano()})
	}
	if len(found) == 0 {
		return "", errors.WithHint(errors.Newf("no documents in %s", root),
			"run the build command first")
	}
	sort.Slice(found, func(i, j int) bool {
		if found[i].mod != found[j].mod {
			return found[i].mod > found[j].mod
		}
		return found[i].path < found[j].path
	})
	return found[0].path, nil
}
