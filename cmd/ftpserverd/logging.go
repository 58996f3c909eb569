package main

import (
	"fmt"
	"net"
	"strconv"

	log "github.com/fclairamb/go-log"
	"github.com/sirupsen/logrus"
)

// logrusAdapter satisfies fclairamb/go-log's Logger interface on top of a
// logrus entry, the way the teacher's bundled CLI wired logrus into the
// server's pluggable logger.
type logrusAdapter struct {
	entry *logrus.Entry
}

func newLogrusAdapter(entry *logrus.Entry) log.Logger {
	return &logrusAdapter{entry: entry}
}

func (l *logrusAdapter) fields(keyvals []interface{}) logrus.Fields {
	fields := make(logrus.Fields, len(keyvals)/2)

	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}

		fields[key] = keyvals[i+1]
	}

	return fields
}

func (l *logrusAdapter) Debug(event string, keyvals ...interface{}) {
	l.entry.WithFields(l.fields(keyvals)).Debug(event)
}

func (l *logrusAdapter) Info(event string, keyvals ...interface{}) {
	l.entry.WithFields(l.fields(keyvals)).Info(event)
}

func (l *logrusAdapter) Warn(event string, keyvals ...interface{}) {
	l.entry.WithFields(l.fields(keyvals)).Warn(event)
}

func (l *logrusAdapter) Error(event string, keyvals ...interface{}) {
	l.entry.WithFields(l.fields(keyvals)).Error(event)
}

func (l *logrusAdapter) With(keyvals ...interface{}) log.Logger {
	return &logrusAdapter{entry: l.entry.WithFields(l.fields(keyvals))}
}

func splitListenAddr(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}

	return host, uint16(port), nil
}
