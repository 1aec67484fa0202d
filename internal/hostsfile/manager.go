package hostsfile

import (
	"commitblock/internal/fsutil"
	"commitblock/internal/interfaces"
	"commitblock/internal/models"
	"commitblock/internal/providers"
	"commitblock/internal/structures"
	"fmt"
	"os"
	"sync"
)

// Manager owns the managed block of a hosts file. The file is re-read on
// every call and all mutations are serialized by mu.
type Manager struct {
	path    string
	backups *BackupManager
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
	mu      sync.Mutex
}

func NewManager(conf *structures.Config, backups *BackupManager, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.BlockManagerInterface {
	return &Manager{
		path:    conf.Hosts.FilePath,
		backups: backups,
		logger:  logger,
		metrics: metrics,
	}
}

func (m *Manager) read() (string, *Block, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return "", nil, &FileError{Path: m.path, Op: "read", Cause: err}
	}
	content := string(data)
	block, err := Parse(content)
	if err != nil {
		return "", nil, &FileError{Path: m.path, Op: "parse", Cause: err}
	}
	return content, block, nil
}

func (m *Manager) write(op, previous, content string) error {
	if m.backups.Enabled() {
		name, err := m.backups.Create([]byte(previous))
		if err != nil {
			return fmt.Errorf("backup before %s: %w", op, err)
		}
		m.logger.Debugf(providers.TypeHosts, "Backed up %s to %s", m.path, name)
	}

	err := fsutil.WriteFileAtomic(m.path, []byte(content), fsutil.FileMode(m.path, 0644))
	if err != nil {
		return &FileError{Path: m.path, Op: "write", Cause: err}
	}
	m.metrics.IncHostsWrites(op)
	m.logger.Infof(providers.TypeHosts, "%s: rewrote managed block in %s", op, m.path)
	return nil
}

// Load returns the host names listed in the block in file order, without
// duplicates. Engaged and released lines both count as membership.
func (m *Manager) Load() ([]string, error) {
	_, block, err := m.read()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(block.Inside))
	hosts := make([]string, 0, len(block.Inside)/2)
	for _, line := range block.Inside {
		host := hostFromLine(line)
		if host == "" {
			continue
		}
		if _, ok := seen[host]; ok {
			continue
		}
		seen[host] = struct{}{}
		hosts = append(hosts, host)
	}
	return hosts, nil
}

// Replace rewrites the block with hosts, keeping the block released when it
// currently is released and engaging it otherwise.
func (m *Manager) Replace(hosts []string) error {
	hosts, err := ValidateHosts(hosts)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, block, err := m.read()
	if err != nil {
		return err
	}
	return m.replace(content, block, hosts, blockMode(block.Inside) == models.ModeReleased)
}

// ReplaceEngaged rewrites the block with hosts, all engaged.
func (m *Manager) ReplaceEngaged(hosts []string) error {
	hosts, err := ValidateHosts(hosts)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	content, block, err := m.read()
	if err != nil {
		return err
	}
	return m.replace(content, block, hosts, false)
}

func (m *Manager) replace(content string, block *Block, hosts []string, released bool) error {
	inside := make([]string, 0, len(hosts)*2)
	for _, host := range hosts {
		inside = append(inside, hostLines(host, released)...)
	}

	updated := block.Render(inside)
	if updated == content {
		return nil
	}
	return m.write("replace", content, updated)
}

// Engage uncomments every line of the block.
func (m *Manager) Engage() error {
	return m.toggle("engage", engageLine)
}

// Release comments out every line of the block.
func (m *Manager) Release() error {
	return m.toggle("release", releaseLine)
}

func (m *Manager) toggle(op string, fn func(string) string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	content, block, err := m.read()
	if err != nil {
		return err
	}
	if !block.Found {
		m.logger.Debugf(providers.TypeHosts, "%s: no managed block in %s", op, m.path)
		return nil
	}

	inside := make([]string, len(block.Inside))
	for i, line := range block.Inside {
		inside[i] = fn(line)
	}

	updated := block.Render(inside)
	if updated == content {
		return nil
	}
	return m.write(op, content, updated)
}

func (m *Manager) Mode() (models.BlockMode, error) {
	_, block, err := m.read()
	if err != nil {
		return models.ModeAbsent, err
	}
	return blockMode(block.Inside), nil
}

// Restore replaces the whole hosts file with the named backup. The current
// file is backed up first.
func (m *Manager) Restore(backupName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	restored, err := m.backups.Read(backupName)
	if err != nil {
		return err
	}
	if _, err := Parse(string(restored)); err != nil {
		return fmt.Errorf("backup %s: %w", backupName, err)
	}

	current, err := os.ReadFile(m.path)
	if err != nil && !os.IsNotExist(err) {
		return &FileError{Path: m.path, Op: "read", Cause: err}
	}
	return m.write("restore", string(current), string(restored))
}
