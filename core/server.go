package core

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log"
	"sync/atomic"

	"github.com/gliderlabs/ssh"
	"github.com/juju/ratelimit"
	gossh "golang.org/x/crypto/ssh"

	"github.com/josephlewis42/treesh/core/config"
	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/shell"
)

// Server gives each SSH session its own terminal.
type Server struct {
	configuration *config.Configuration
	logger        *logger.Logger
	sshServer     *ssh.Server
}

// NewServer creates a server recording events to eventLog.
func NewServer(configuration *config.Configuration, eventLog io.Writer) (*Server, error) {
	server := &Server{
		configuration: configuration,
		logger:        logger.NewJsonLinesLogRecorder(eventLog),
	}

	server.sshServer = &ssh.Server{
		Addr:    fmt.Sprintf(":%d", configuration.SSHPort),
		Version: configuration.SSHBanner,
		Handler: func(s ssh.Session) {
			if err := server.HandleConnection(s); err != nil {
				log.Printf("Session error: %v", err)
			}
		},
		PasswordHandler: server.checkPassword,
	}

	keyPem, err := configuration.PrivateKeyPem()
	if err != nil {
		return nil, fmt.Errorf("couldn't read host key: %w", err)
	}
	signer, err := gossh.ParsePrivateKey(keyPem)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse host key: %w", err)
	}
	server.sshServer.AddHostKey(signer)
	log.Printf("- Host key fingerprint: %s\n", gossh.FingerprintSHA256(signer.PublicKey()))

	return server, nil
}

// PasswordMatches returns true if password is accepted by the configuration.
func PasswordMatches(configuration *config.Configuration, password string) bool {
	want := configuration.SSHPassword
	if want == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(want)) == 1
}

func (s *Server) checkPassword(ctx ssh.Context, password string) bool {
	ok := PasswordMatches(s.configuration, password)

	result := logger.OperationResultFailure
	if ok {
		result = logger.OperationResultSuccess
	}
	_ = s.logger.Session(ctx.SessionID()).Record(&logger.LoginAttempt{
		Username:   ctx.User(),
		RemoteAddr: ctx.RemoteAddr().String(),
		Result:     result,
	})

	return ok
}

// output throttles writes to the session if configured.
func (s *Server) output(w io.Writer) io.Writer {
	rate := s.configuration.OutputBytesPerSecond
	if rate <= 0 {
		return w
	}
	return ratelimit.Writer(w, ratelimit.NewBucketWithRate(float64(rate), rate))
}

// HandleConnection runs a terminal over an SSH session until it ends.
func (s *Server) HandleConnection(session ssh.Session) error {
	sessionLogger := s.logger.NewSession()
	if ctx, ok := session.Context().(ssh.Context); ok {
		sessionLogger = s.logger.Session(ctx.SessionID())
	}

	terminal := NewTerminal(s.configuration, session, nil, shell.WithRecorder(sessionLogger))
	terminal.Log = log.New(session.Stderr(), "", 0)

	ptyInfo, winch, isPTY := session.Pty()
	width := newWindowWidth(ptyInfo.Window.Width)
	go width.follow(winch)

	rl, err := terminal.AttachReadline(session, s.output(session), isPTY, width.Get)
	if err != nil {
		session.Exit(1)
		return err
	}
	defer rl.Close()

	if err := terminal.Run(session.Context()); err != nil && err != context.Canceled {
		session.Exit(1)
		return err
	}

	session.Exit(0)
	return nil
}

// windowWidth is the width of a pty, updated as the client resizes it.
type windowWidth struct {
	width atomic.Int32
}

func newWindowWidth(initial int) *windowWidth {
	w := &windowWidth{}
	w.width.Store(int32(initial))
	return w
}

func (w *windowWidth) follow(winch <-chan ssh.Window) {
	for window := range winch {
		w.width.Store(int32(window.Width))
	}
}

func (w *windowWidth) Get() int {
	return int(w.width.Load())
}

func (s *Server) ListenAndServe() error {
	log.Printf("- Starting SSH server on %s\n", s.sshServer.Addr)
	return s.sshServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.sshServer.Shutdown(ctx)
}
