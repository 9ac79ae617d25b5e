// Package smtpgw runs the analysis engine as a Postfix content filter. Mail
// is accepted on a local SMTP listener, the text body is scored for phishing,
// verdict headers are prepended, and the message is re-injected into Postfix.
package smtpgw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/whitelist"
)

// PostfixGateway implements a Postfix content filter over the analysis engine
type PostfixGateway struct {
	service         *core.AnalysisService
	trusted         *whitelist.Checker
	logger          *zap.Logger
	listenAddr      string
	server          *smtp.Server
	rejectDangerous bool
	verdictHeader   string
	scoreHeader     string
	signalsHeader   string
	postfixAddr     string
	postfixPort     int
	subjectPrefix   string
	tagSubject      bool
}

// NewPostfixGateway creates a new Postfix content filter
func NewPostfixGateway(
	service *core.AnalysisService,
	trusted *whitelist.Checker,
	logger *zap.Logger,
	listenAddr string,
	rejectDangerous bool,
	verdictHeader string,
	scoreHeader string,
	signalsHeader string,
	postfixAddr string,
	postfixPort int,
	subjectPrefix string,
	tagSubject bool,
) *PostfixGateway {
	if subjectPrefix == "" && tagSubject {
		subjectPrefix = "[SUSPECTED PHISH] "
	}

	return &PostfixGateway{
		service:         service,
		trusted:         trusted,
		logger:          logger,
		listenAddr:      listenAddr,
		rejectDangerous: rejectDangerous,
		verdictHeader:   verdictHeader,
		scoreHeader:     scoreHeader,
		signalsHeader:   signalsHeader,
		postfixAddr:     postfixAddr,
		postfixPort:     postfixPort,
		subjectPrefix:   subjectPrefix,
		tagSubject:      tagSubject,
	}
}

// Start starts the SMTP listener
func (g *PostfixGateway) Start() error {
	g.server = smtp.NewServer(&smtpBackend{gateway: g})

	g.server.Addr = g.listenAddr
	g.server.Domain = "localhost"
	g.server.ReadTimeout = 30 * time.Second
	g.server.WriteTimeout = 30 * time.Second
	g.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	g.server.MaxRecipients = 50
	g.server.AllowInsecureAuth = true

	g.logger.Info("Postfix gateway starting", zap.String("address", g.listenAddr))

	go func() {
		if err := g.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				g.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (g *PostfixGateway) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

// sendToPostfix re-injects the processed email into Postfix on the configured
// port using go-smtp
func (g *PostfixGateway) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := fmt.Sprintf("%s:%d", g.postfixAddr, g.postfixPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			g.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			// Continue with other recipients even if one fails
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	_, err = wc.Write(emailData)
	if err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		g.logger.Warn("QUIT command failed", zap.Error(err))
		// The email has already been accepted at this point
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	gateway *PostfixGateway
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		gateway:    b.gateway,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	gateway    *PostfixGateway
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for a content filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data analyzes the message body and re-injects the mail with verdict headers
func (s *smtpSession) Data(r io.Reader) error {
	g := s.gateway

	rawData, err := io.ReadAll(r)
	if err != nil {
		g.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		g.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	senderDomain := "unknown"
	if parts := strings.Split(s.sender, "@"); len(parts) == 2 {
		senderDomain = parts[1]
	}

	// Trusted senders bypass analysis entirely
	if g.trusted != nil && g.trusted.IsTrusted(s.sender) {
		g.logger.Info("Skipping analysis for trusted sender",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain))
		return g.sendToPostfix(s.sender, s.recipients, rawData)
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		g.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	subject := msg.Header.Get("Subject")
	if decoded, err := decodeEncodedHeader(subject); err == nil {
		subject = decoded
	}

	body := textContent
	if subject != "" {
		body = subject + "\n" + textContent
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := g.service.AnalyzeMessage(ctx, core.Message{Body: body})
	if err != nil {
		// Temp-fail so Postfix retries once the classifier recovers. A
		// permanent reject here would bounce legitimate mail on an outage.
		g.logger.Error("Failed to analyze message",
			zap.Error(err),
			zap.String("sender", s.sender),
			zap.String("sender_domain", senderDomain))
		return &smtp.SMTPError{
			Code:         451,
			EnhancedCode: smtp.EnhancedCode{4, 7, 1},
			Message:      "Message analysis temporarily unavailable, try again later",
		}
	}

	dangerous := result.Verdict == core.VerdictDangerous

	if dangerous && g.rejectDangerous {
		g.logger.Info("Rejecting dangerous email",
			zap.String("from", s.sender),
			zap.String("sender_domain", senderDomain),
			zap.Int("score", result.Score),
			zap.Strings("signals", result.ActiveSignals))
		return &smtp.SMTPError{
			Code:         550,
			EnhancedCode: smtp.EnhancedCode{5, 7, 1},
			Message:      fmt.Sprintf("Rejected as phishing (score: %d)", result.Score),
		}
	}

	var modified bytes.Buffer

	fmt.Fprintf(&modified, "%s: %s\r\n", g.verdictHeader, result.Verdict)
	fmt.Fprintf(&modified, "%s: %d\r\n", g.scoreHeader, result.Score)
	fmt.Fprintf(&modified, "%s: %s\r\n", g.signalsHeader, strings.Join(result.ActiveSignals, ", "))

	tagged := dangerous && g.tagSubject && g.subjectPrefix != "" &&
		!strings.HasPrefix(subject, g.subjectPrefix)
	if tagged {
		fmt.Fprintf(&modified, "Subject: %s\r\n", g.subjectPrefix+subject)
	}

	for key, values := range msg.Header {
		if tagged && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&modified, "%s: %s\r\n", key, value)
		}
	}

	fmt.Fprintf(&modified, "\r\n")

	// Preserve the original body bytes so MIME parts and attachments survive
	bodyStartIndex := bytes.Index(rawData, []byte("\r\n\r\n"))
	if bodyStartIndex != -1 {
		modified.Write(rawData[bodyStartIndex+4:])
	} else if bodyStartIndex = bytes.Index(rawData, []byte("\n\n")); bodyStartIndex != -1 {
		modified.Write(rawData[bodyStartIndex+2:])
	} else {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			g.logger.Error("Failed to read message body", zap.Error(err))
			return err
		}
		modified.Write(bodyBytes)
	}

	if err := g.sendToPostfix(s.sender, s.recipients, modified.Bytes()); err != nil {
		g.logger.Error("Failed to send email back to Postfix",
			zap.Error(err),
			zap.String("sender", s.sender))
		return err
	}

	g.logger.Info("Processed email",
		zap.String("from", s.sender),
		zap.String("sender_domain", senderDomain),
		zap.String("verdict", string(result.Verdict)),
		zap.Int("score", result.Score),
		zap.String("scan_id", result.Metadata.ScanID))

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
