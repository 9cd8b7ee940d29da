package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/cockroachdb/errors"
)

//go:embed migrations/*.sql
var embeddedSchema embed.FS

type schemaFile struct {
	name string
	data []byte
}

// RunMigrations applies every schema file in lexical order. Files in dir take
// precedence over the embedded ones, and an existing dir must hold at least
// one. Every statement must be idempotent (CREATE ... IF NOT EXISTS) since
// nothing records which files already ran.
func RunMigrations(ctx context.Context, conn *sql.Conn, dir string) error {
	files, err := loadSchemaFiles(dir)
	if err != nil {
		return err
	}
	for _, f := range files {
		if len(f.data) == 0 {
			continue
		}
		if _, err := conn.ExecContext(ctx, string(f.data)); err != nil {
			return errors.Wrapf(err, "exec schema file %s", f.name)
		}
	}
	return nil
}

func loadSchemaFiles(dir string) ([]schemaFile, error) {
	if dir != "" {
		files, err := readSchemaDir(os.DirFS(dir), ".")
		if err == nil && len(files) == 0 {
			return nil, errors.Newf("no .sql schema files in %s", dir)
		}
		if err == nil {
			return files, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, errors.Wrap(err, "read schema dir")
		}
	}
	files, err := readSchemaDir(embeddedSchema, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, "read embedded schema")
	}
	return files, nil
}

func readSchemaDir(fsys fs.FS, dir string) ([]schemaFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var files []schemaFile
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".sql" {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, errors.Wrapf(err, "read schema file %s", entry.Name())
		}
		files = append(files, schemaFile{name: entry.Name(), data: content})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].name < files[j].name })
	return files, nil
}
