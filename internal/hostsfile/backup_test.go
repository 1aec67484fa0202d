package hostsfile

import (
	"commitblock/internal/structures"
	"commitblock/internal/testutil"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackups(t *testing.T, keep int) (*BackupManager, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "backups")
	conf := &structures.Config{Hosts: structures.HostsConfig{BackupDir: dir, BackupKeep: keep}}
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	t.Cleanup(comp.Close)

	b := NewBackupManager(conf, comp, &testutil.MockLogger{})
	clock := time.Date(2024, 11, 1, 10, 0, 0, 0, time.UTC)
	b.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return b, dir
}

func TestBackupManager_CreateAndRead(t *testing.T) {
	b, dir := newTestBackups(t, 0)

	name, err := b.Create([]byte("127.0.0.1\tlocalhost\n"))
	require.NoError(t, err)
	assert.Equal(t, "hosts.bak.20241101-100001.000000000.zst", name)

	raw, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.NotEqual(t, "127.0.0.1\tlocalhost\n", string(raw))

	data, err := b.Read(name)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1\tlocalhost\n", string(data))
}

func TestBackupManager_ListNewestFirstAndPrune(t *testing.T) {
	b, _ := newTestBackups(t, 3)

	var names []string
	for i := 0; i < 5; i++ {
		name, err := b.Create([]byte(fmt.Sprintf("v%d\n", i)))
		require.NoError(t, err)
		names = append(names, name)
	}

	list, err := b.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, names[4], list[0].Name)
	assert.Equal(t, names[2], list[2].Name)
}

func TestBackupManager_ListMissingDir(t *testing.T) {
	b, _ := newTestBackups(t, 0)
	list, err := b.List()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBackupManager_Disabled(t *testing.T) {
	b := NewBackupManager(&structures.Config{}, &testutil.MockCompressor{}, &testutil.MockLogger{})
	assert.False(t, b.Enabled())

	_, err := b.Create([]byte("x"))
	assert.True(t, errors.Is(err, ErrBackupsDisabled))
	_, err = b.List()
	assert.True(t, errors.Is(err, ErrBackupsDisabled))

	var nilManager *BackupManager
	assert.False(t, nilManager.Enabled())
}

func TestBackupManager_ReadRejectsPaths(t *testing.T) {
	b, _ := newTestBackups(t, 0)
	_, err := b.Read("../hosts")
	assert.Error(t, err)
	_, err = b.Read("other.zst")
	assert.Error(t, err)
}

func TestBackupManager_CompressError(t *testing.T) {
	conf := &structures.Config{Hosts: structures.HostsConfig{BackupDir: t.TempDir()}}
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress error") },
	}
	b := NewBackupManager(conf, comp, &testutil.MockLogger{})
	_, err := b.Create([]byte("x"))
	assert.Error(t, err)
}
