package export

import (
	"context"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

const gcsPrefix = "gs://"

// Exporter writes fetched id sets out as curated-list TOML files, to a
// local path or to a Google Cloud Storage object (gs://bucket/object).
// Exported files can be re-fetched through the curated-list provider.
type Exporter struct{}

// New creates a new exporter
func New() *Exporter {
	return &Exporter{}
}

type curatedListFile struct {
	Name string   `toml:"name"`
	IDs  []string `toml:"ids"`
}

// Export serializes the named id set and writes it to dest
func (e *Exporter) Export(ctx context.Context, dest, name string, ids model.GameSet) error {
	if dest == "" {
		return goerr.New("export destination is required")
	}

	list := curatedListFile{Name: name, IDs: make([]string, 0, ids.Len())}
	for _, id := range ids.IDs() {
		list.IDs = append(list.IDs, string(id))
	}

	data, err := toml.Marshal(list)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal export", goerr.V("name", name))
	}

	if strings.HasPrefix(dest, gcsPrefix) {
		return e.writeObject(ctx, dest, data)
	}
	return e.writeFile(dest, data)
}

func (e *Exporter) writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0600); err != nil {
		return goerr.Wrap(err, "failed to write export file", goerr.V("path", path))
	}
	return nil
}

func (e *Exporter) writeObject(ctx context.Context, dest string, data []byte) error {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(dest, gcsPrefix), "/")
	if !ok || bucket == "" || object == "" {
		return goerr.New("invalid GCS destination", goerr.V("dest", dest))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to create storage client")
	}
	defer safe.Close(ctx, client)

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return goerr.Wrap(err, "failed to write export object",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}
	if err := w.Close(); err != nil {
		return goerr.Wrap(err, "failed to finalize export object",
			goerr.V("bucket", bucket), goerr.V("object", object))
	}

	return nil
}
