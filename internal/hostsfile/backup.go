package hostsfile

import (
	"commitblock/internal/fsutil"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	backupPrefix     = "hosts.bak."
	backupExt        = ".zst"
	backupTimeLayout = "20060102-150405.000000000"
)

// BackupManager keeps zstd-compressed copies of the hosts file taken right
// before it is rewritten. A BackupManager with an empty dir is disabled.
type BackupManager struct {
	dir        string
	keep       int
	compressor interfaces.CompressorInterface
	logger     providers.Logger
	now        func() time.Time
}

func NewBackupManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) *BackupManager {
	return &BackupManager{
		dir:        conf.Hosts.BackupDir,
		keep:       conf.Hosts.BackupKeep,
		compressor: compressor,
		logger:     logger,
		now:        time.Now,
	}
}

func (b *BackupManager) Enabled() bool {
	return b != nil && b.dir != ""
}

// Create stores content as a new backup and prunes the oldest ones beyond
// the configured limit. It returns the backup name.
func (b *BackupManager) Create(content []byte) (string, error) {
	if !b.Enabled() {
		return "", ErrBackupsDisabled
	}
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", &FileError{Path: b.dir, Op: "create backup dir", Cause: err}
	}

	data, err := b.compressor.Compress(content)
	if err != nil {
		return "", fmt.Errorf("compress backup: %w", err)
	}

	name := backupPrefix + b.now().Format(backupTimeLayout) + backupExt
	path := filepath.Join(b.dir, name)
	if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
		return "", &FileError{Path: path, Op: "write backup", Cause: err}
	}

	if err := b.prune(); err != nil {
		b.logger.Warnf(providers.TypeHosts, "Pruning backups failed: %s", err)
	}
	return name, nil
}

// List returns the stored backups, newest first.
func (b *BackupManager) List() ([]models.BackupInfo, error) {
	if !b.Enabled() {
		return nil, ErrBackupsDisabled
	}
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.BackupInfo{}, nil
		}
		return nil, &FileError{Path: b.dir, Op: "list backups", Cause: err}
	}

	backups := make([]models.BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), backupPrefix) || !strings.HasSuffix(entry.Name(), backupExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.BackupInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			Modified: info.ModTime(),
		})
	}

	// names embed the timestamp, so lexical order is chronological
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// Read returns the decompressed content of the named backup.
func (b *BackupManager) Read(name string) ([]byte, error) {
	if !b.Enabled() {
		return nil, ErrBackupsDisabled
	}
	if name != filepath.Base(name) || !strings.HasPrefix(name, backupPrefix) {
		return nil, fmt.Errorf("invalid backup name %q", name)
	}
	path := filepath.Join(b.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Op: "read backup", Cause: err}
	}
	content, err := b.compressor.Decompress(data)
	if err != nil {
		return nil, &FileError{Path: path, Op: "decompress backup", Cause: err}
	}
	return content, nil
}

func (b *BackupManager) prune() error {
	if b.keep <= 0 {
		return nil
	}
	backups, err := b.List()
	if err != nil {
		return err
	}
	for _, stale := range backups[min(b.keep, len(backups)):] {
		if err := os.Remove(filepath.Join(b.dir, stale.Name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}
