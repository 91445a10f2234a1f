package ioraster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gnames/wfdb/internal/iofs"
	"github.com/gnames/wfdb/internal/iometrics"
	"github.com/gnames/wfdb/pkg/config"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
	"golang.org/x/sync/singleflight"
)

// remoteFS is the part of an SFTP session used by the daily cache.
type remoteFS interface {
	Stat(path string) (fs.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	Close() error
}

// Daily is a cache of daily burned area files.
type Daily struct {
	cfg     config.DailyConfig
	remote  config.RemoteConfig
	dir     string
	metrics *iometrics.Metrics
	clock   clockwork.Clock
	group   singleflight.Group

	// dial opens a new session, it is replaced in tests.
	dial func() (remoteFS, error)

	mu     sync.Mutex
	conn   remoteFS
	absent map[string]bool
}

// NewDaily creates a daily archive cache in the raster directory.
// A nil clock means the real one.
func NewDaily(
	cfg *config.Config,
	clock clockwork.Clock,
	m *iometrics.Metrics,
) *Daily {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	d := &Daily{
		clock:   clock,
		cfg:     cfg.Daily,
		remote:  cfg.Remote,
		dir:     filepath.Join(config.RasterDir(cfg.HomeDir), "daily"),
		metrics: m,
		absent:  make(map[string]bool),
	}
	d.dial = d.dialSFTP
	return d
}

// RemotePath returns the location of a day file on the server.
func (d *Daily) RemotePath(date time.Time) string {
	return path.Join(d.cfg.Dir, strconv.Itoa(date.Year()), d.fileName(date))
}

func (d *Daily) fileName(date time.Time) string {
	return fmt.Sprintf("%s_%d%03d_%s.hdf",
		d.cfg.Prefix, date.Year(), date.YearDay(), d.cfg.Suffix)
}

// LocalPath returns the cached location of a day file. Converted files
// have .h5 extension.
func (d *Daily) LocalPath(date time.Time) string {
	name := d.fileName(date)
	if d.cfg.H4ToH5 != "" {
		name = name[:len(name)-len(".hdf")] + ".h5"
	}
	return filepath.Join(d.dir, name)
}

// Layer is the name of the burned area layer of a day file.
func (d *Daily) Layer() string {
	return d.cfg.Layer
}

// DayFile returns a local path to the file of the day. If the server
// has no file for the day, found is false and error is nil.
func (d *Daily) DayFile(
	ctx context.Context,
	date time.Time,
) (string, bool, error) {
	local := d.LocalPath(date)
	if iofs.Exists(local) {
		d.metrics.Cache("daily", "hit")
		return local, true, nil
	}

	remote := d.RemotePath(date)
	if d.isAbsent(remote) {
		return "", false, nil
	}

	res, err, _ := d.group.Do(remote, func() (any, error) {
		if iofs.Exists(local) {
			return true, nil
		}
		found, err := d.fetch(ctx, remote, local)
		if err == nil && !found {
			d.metrics.Cache("daily", "absent")
			d.setAbsent(remote)
		}
		if found {
			d.metrics.Cache("daily", "miss")
		}
		return found, err
	})
	if err != nil {
		return "", false, err
	}
	if !res.(bool) {
		return "", false, nil
	}
	return local, true, nil
}

// fetch downloads a remote file with retries. Only connection problems
// are retried, missing remote file is not.
func (d *Daily) fetch(ctx context.Context, remote, local string) (bool, error) {
	var err error
	backoff := d.remote.InitialBackoff
	for attempt := 0; ; attempt++ {
		var found bool
		found, err = d.withTimeout(ctx, func(conn remoteFS) (bool, error) {
			return d.copy(ctx, conn, remote, local)
		})
		d.metrics.Remote("daily", err)
		if err == nil {
			return found, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if attempt >= d.remote.MaxRetries {
			break
		}

		slog.Debug("Retrying daily file",
			"path", remote, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-d.clock.After(backoff):
		}
		backoff *= 2
	}
	return false, SFTPError(d.cfg.Host, d.cfg.Port, err)
}

// withTimeout runs op on a shared session. When the op takes longer
// than the remote timeout the session is closed to abort it.
func (d *Daily) withTimeout(
	ctx context.Context,
	op func(remoteFS) (bool, error),
) (bool, error) {
	conn, err := d.session()
	if err != nil {
		return false, err
	}

	type result struct {
		found bool
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		found, err := op(conn)
		ch <- result{found, err}
	}()

	timeout := d.remote.Timeout
	if timeout <= 0 {
		timeout = time.Hour
	}
	timer := d.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil && !errors.Is(res.err, fs.ErrNotExist) {
			d.reset(conn)
		}
		return res.found, res.err
	case <-timer.Chan():
		d.reset(conn)
		return false, fmt.Errorf("sftp operation timed out after %s", timeout)
	case <-ctx.Done():
		d.reset(conn)
		return false, ctx.Err()
	}
}

func (d *Daily) copy(
	ctx context.Context,
	conn remoteFS,
	remote, local string,
) (bool, error) {
	if _, err := conn.Stat(remote); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("No daily file on server", "path", remote)
			return false, nil
		}
		return false, err
	}

	f, err := conn.Open(remote)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if d.cfg.H4ToH5 == "" {
		if _, err = iofs.AtomicWrite(local, f); err != nil {
			return false, err
		}
		return true, nil
	}

	hdf4 := local + ".hdf4"
	if _, err = iofs.AtomicWrite(hdf4, f); err != nil {
		return false, err
	}
	defer os.Remove(hdf4)
	if err = convert(ctx, d.cfg.H4ToH5, hdf4, local); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Daily) session() (remoteFS, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		return d.conn, nil
	}
	conn, err := d.dial()
	if err != nil {
		return nil, err
	}
	d.conn = conn
	return conn, nil
}

// reset drops a broken session, the next call dials again.
func (d *Daily) reset(conn remoteFS) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == conn {
		d.conn.Close()
		d.conn = nil
	}
}

func (d *Daily) isAbsent(remote string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.absent[remote]
}

func (d *Daily) setAbsent(remote string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.absent[remote] = true
}

// Close closes the SFTP session if it is open.
func (d *Daily) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

func (d *Daily) dialSFTP() (remoteFS, error) {
	hostKey, err := d.hostKeyCallback()
	if err != nil {
		return nil, err
	}
	sshCfg := &ssh.ClientConfig{
		User:            d.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(d.cfg.Password)},
		HostKeyCallback: hostKey,
		Timeout:         d.remote.Timeout,
	}

	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))
	sshConn, err := ssh.Dial("tcp", addr, sshCfg)
	if err != nil {
		return nil, err
	}
	client, err := sftp.NewClient(sshConn)
	if err != nil {
		sshConn.Close()
		return nil, err
	}
	slog.Info("Connected to daily archive", "addr", addr)
	return &sftpFS{ssh: sshConn, client: client}, nil
}

func (d *Daily) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if d.cfg.KnownHosts == "" {
		slog.Warn("Host key of daily archive is not verified, set daily.known_hosts",
			"host", d.cfg.Host)
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(d.cfg.KnownHosts)
	if err != nil {
		return nil, iofs.ReadFileError(d.cfg.KnownHosts, err)
	}
	return cb, nil
}

// sftpFS adapts sftp client to remoteFS.
type sftpFS struct {
	ssh    *ssh.Client
	client *sftp.Client
}

func (s *sftpFS) Stat(p string) (fs.FileInfo, error) {
	return s.client.Stat(p)
}

func (s *sftpFS) Open(p string) (io.ReadCloser, error) {
	return s.client.Open(p)
}

func (s *sftpFS) Close() error {
	err := s.client.Close()
	if sshErr := s.ssh.Close(); err == nil {
		err = sshErr
	}
	return err
}
