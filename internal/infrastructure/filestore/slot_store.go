// Package filestore guarda los slots de sesión como archivos en un directorio local,
// uno por clave, para que la identidad sobreviva a un reinicio del proceso.
package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

var _ repository.SlotStore = (*SlotStore)(nil)

// SlotStore implementación de repository.SlotStore sobre el sistema de archivos.
type SlotStore struct {
	dir string
}

// NewSlotStore crea el directorio si no existe.
func NewSlotStore(dir string) (*SlotStore, error) {
	if dir == "" {
		return nil, errors.New("filestore: directorio vacío")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("filestore: crear directorio: %w", err)
	}
	return &SlotStore{dir: dir}, nil
}

// path las claves se codifican en hex para que "user:<id>" sea un nombre de archivo válido.
func (s *SlotStore) path(key string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(key))+".json")
}

func (s *SlotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("filestore: leer slot: %w", err)
	}
	return b, nil
}

// Save escribe en un archivo temporal y lo renombra para no dejar slots a medias.
func (s *SlotStore) Save(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, "slot-*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: crear temporal: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("filestore: escribir slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: cerrar temporal: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("filestore: renombrar slot: %w", err)
	}
	return nil
}

func (s *SlotStore) Clear(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("filestore: borrar slot: %w", err)
	}
	return nil
}
