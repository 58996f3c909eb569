package main

import (
	log "github.com/fclairamb/go-log"

	ftpserver "github.com/example/ftps4"
)

// cliDriver is the MainDriver used by the standalone binary: a single
// shared filesystem root and an advertised address taken straight from
// config, grounded on the teacher's sample.MainDriver.
type cliDriver struct {
	settings *ftpserver.Settings
	root     string
	logger   log.Logger
}

func newCLIDriver(cfg fileConfig, logger log.Logger) *cliDriver {
	return &cliDriver{
		settings: &ftpserver.Settings{
			ListenAddr:     cfg.ListenAddr,
			AdvertisedAddr: cfg.AdvertisedAddr,
			FileBufSize:    cfg.FileBufSize,
		},
		root:   cfg.Root,
		logger: logger,
	}
}

func (d *cliDriver) GetSettings() (*ftpserver.Settings, error) {
	return d.settings, nil
}

func (d *cliDriver) ClientConnected(cc ftpserver.ClientContext) error {
	d.logger.Info("client connected", "id", cc.ID(), "remote", cc.RemoteAddr())

	return nil
}

func (d *cliDriver) ClientDisconnected(cc ftpserver.ClientContext) {
	d.logger.Info("client disconnected", "id", cc.ID())
}

func (d *cliDriver) GetFS(cc ftpserver.ClientContext) (ftpserver.ClientDriver, error) {
	if d.root == "" || d.root == "/" {
		return ftpserver.NewOSClientDriver(), nil
	}

	return ftpserver.NewOSClientDriverAt(d.root), nil
}
