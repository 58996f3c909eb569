// Command ftpserverd runs a standalone instance of the FTP server against
// a real directory on disk.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	ftpserver "github.com/example/ftps4"
)

var srv *ftpserver.Server

func main() {
	var confFile string

	var confOnly bool

	flag.StringVar(&confFile, "conf", "settings.toml", "Configuration file")
	flag.BoolVar(&confOnly, "conf-only", false, "Only create the config file and exit")
	flag.Parse()

	if _, err := os.Stat(confFile); os.IsNotExist(err) {
		logrus.WithField("conf_file", confFile).Info("no config file, creating one")

		if err := writeDefaultConfig(confFile); err != nil {
			logrus.WithField("conf_file", confFile).Fatalf("couldn't create config file: %v", err)
		}
	}

	if confOnly {
		return
	}

	cfg, err := loadConfig(confFile)
	if err != nil {
		logrus.Fatalf("couldn't load config: %v", err)
	}

	goLogger := newLogrusAdapter(logrus.WithField("component", "ftpserverd"))

	driver := newCLIDriver(cfg, goLogger)

	srv = ftpserver.NewServer(driver)
	srv.SetLogger(goLogger)

	host, port, err := splitListenAddr(cfg.ListenAddr)
	if err != nil {
		logrus.Fatalf("bad listen_addr %q: %v", cfg.ListenAddr, err)
	}

	done := make(chan struct{})

	go signalHandler(done)

	if err := srv.Init(host, port); err != nil {
		logrus.Fatalf("couldn't start server: %v", err)
	}

	<-done
}

func signalHandler(done chan struct{}) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(ch)

	<-ch
	srv.Fini()
	close(done)
}
