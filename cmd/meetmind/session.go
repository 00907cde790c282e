// ABOUTME: Interactive room session loop for the meetmind client
// ABOUTME: Renders the message log and drives send, paging, and attachments

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/bipulkrdas/meetmind/internal/api"
	"github.com/bipulkrdas/meetmind/internal/attach"
	"github.com/bipulkrdas/meetmind/internal/config"
	"github.com/bipulkrdas/meetmind/internal/conversation"
	"github.com/bipulkrdas/meetmind/internal/transcript"
)

// session bundles everything one open room needs.
type session struct {
	controller *conversation.Controller
	pipeline   *attach.Pipeline
	resolver   *transcript.Resolver
	client     *api.Client
	logger     *slog.Logger
}

func runOpen(ctx context.Context, cfg *config.Config, logger *slog.Logger, roomID string) error {
	client := newClient(cfg, logger)

	s := &session{
		controller: conversation.NewController(client, client, logger),
		pipeline:   attach.NewPipeline(client, logger),
		resolver:   transcript.NewResolver(client, logger),
		client:     client,
		logger:     logger,
	}

	if err := s.controller.LoadInitialData(ctx, roomID); err != nil {
		return fmt.Errorf("opening room: %w", err)
	}

	log := s.controller.Log()
	room := log.Room()
	if room != nil {
		cyan := color.New(color.FgCyan, color.Bold)
		cyan.Printf("# %s\n", room.Room.RoomName)
		gray := color.New(color.FgHiBlack)
		gray.Printf("%d participants", room.ParticipantCount)
		if room.IsOwner {
			gray.Print(" · you own this room")
		}
		fmt.Println()
		fmt.Println()
	}

	for _, msg := range log.Messages() {
		printMessage(&msg)
	}
	fmt.Println()
	fmt.Println("Type a message and press Enter. /help for commands. Ctrl+C to quit.")
	fmt.Println()

	// Progress and failure events print as they happen.
	events, subID := s.pipeline.Subscribe(ctx)
	defer s.pipeline.Unsubscribe(subID)
	go printAttachmentEvents(events)

	return s.loop(ctx)
}

func (s *session) loop(ctx context.Context) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		// Read input with context awareness
		inputCh := make(chan string, 1)
		errCh := make(chan error, 1)

		go func() {
			if scanner.Scan() {
				inputCh <- scanner.Text()
			} else {
				if err := scanner.Err(); err != nil {
					errCh <- err
				} else {
					errCh <- io.EOF
				}
			}
		}()

		var input string
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		case input = <-inputCh:
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if input == "/quit" || input == "/exit" || input == "/q" {
			return nil
		}

		if err := s.dispatch(ctx, input); err != nil {
			color.Red("[error] %v", err)
		}
		fmt.Println()
	}
}

func (s *session) dispatch(ctx context.Context, input string) error {
	if !strings.HasPrefix(input, "/") {
		return s.send(ctx, input)
	}

	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch cmd {
	case "/more":
		return s.more(ctx)
	case "/participants":
		return s.participants()
	case "/invite":
		return s.invite(ctx, args)
	case "/attach":
		return s.attach(args)
	case "/files":
		return s.files()
	case "/remove":
		return s.remove(args)
	case "/transcript":
		return s.showTranscript(ctx, args)
	case "/session":
		return s.sessionToken(ctx)
	case "/help":
		printSessionHelp()
		return nil
	default:
		return fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// send uploads any pending attachments, then creates the message. A
// failed upload aborts the send; the files stay selected for retry.
func (s *session) send(ctx context.Context, content string) error {
	var attachmentIDs []string
	if s.pipeline.Len() > 0 {
		ids, err := s.pipeline.UploadAll(ctx, s.controller.RoomID())
		if err != nil {
			return err
		}
		attachmentIDs = ids
	}

	msg, err := s.controller.Send(ctx, content, attachmentIDs)
	if err != nil {
		return err
	}
	s.pipeline.Clear()
	printMessage(msg)
	return nil
}

func (s *session) more(ctx context.Context) error {
	log := s.controller.Log()
	before := log.Len()

	if err := s.controller.LoadMoreMessages(ctx); err != nil {
		if errors.Is(err, conversation.ErrSuperseded) {
			return nil
		}
		return err
	}

	loaded := log.Len() - before
	if loaded == 0 {
		fmt.Println("No older messages")
		return nil
	}

	fmt.Printf("Loaded %d older messages:\n", loaded)
	for _, msg := range log.Messages()[:loaded] {
		printMessage(&msg)
	}
	return nil
}

func (s *session) participants() error {
	participants := s.controller.Log().Participants()
	if len(participants) == 0 {
		fmt.Println("No participants")
		return nil
	}

	gray := color.New(color.FgHiBlack)
	for _, p := range participants {
		fmt.Printf("  %s", p.Name)
		if p.Email != "" {
			gray.Printf(" <%s>", p.Email)
		}
		if p.Role != "" {
			gray.Printf(" [%s]", p.Role)
		}
		fmt.Println()
	}
	return nil
}

func (s *session) invite(ctx context.Context, args string) error {
	email, name, _ := strings.Cut(args, " ")
	if email == "" {
		return fmt.Errorf("usage: /invite <email> [name]")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}

	p, err := s.controller.AddParticipant(ctx, api.AddParticipantRequest{Email: email, Name: name})
	if err != nil {
		return err
	}
	fmt.Printf("Invited %s <%s>\n", p.Name, p.Email)
	return nil
}

func (s *session) attach(path string) error {
	if path == "" {
		return fmt.Errorf("usage: /attach <path>")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	name := filepath.Base(path)
	errs := s.pipeline.Select(attach.Input{
		Name:      name,
		MediaType: attach.DetectMediaType(name, data),
		Data:      data,
	})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (s *session) files() error {
	files := s.pipeline.Files()
	if len(files) == 0 {
		fmt.Println("No pending attachments")
		return nil
	}

	gray := color.New(color.FgHiBlack)
	for _, f := range files {
		fmt.Printf("  %s  %s", f.ID, f.Name)
		gray.Printf("  %s, %d bytes", f.MediaType, f.Size)
		switch {
		case f.Err != nil:
			color.New(color.FgRed).Printf("  failed: %v", f.Err)
		case f.Uploading:
			gray.Printf("  uploading %d%%", f.Progress)
		case f.Progress == 100:
			color.New(color.FgGreen).Print("  uploaded")
		}
		fmt.Println()
	}
	return nil
}

func (s *session) remove(fileID string) error {
	if fileID == "" {
		return fmt.Errorf("usage: /remove <file-id>")
	}
	if !s.pipeline.Remove(fileID) {
		return fmt.Errorf("no pending attachment %s", fileID)
	}
	fmt.Println("Removed")
	return nil
}

// showTranscript resolves and prints the transcript behind a
// meeting_transcript message. With a second argument it writes an HTML
// export to that path instead.
func (s *session) showTranscript(ctx context.Context, args string) error {
	messageID, outPath, _ := strings.Cut(args, " ")
	if messageID == "" {
		return fmt.Errorf("usage: /transcript <message-id> [out.html]")
	}

	var target *api.Message
	for _, msg := range s.controller.Log().Messages() {
		if msg.ID == messageID {
			target = &msg
			break
		}
	}
	if target == nil {
		return fmt.Errorf("no message %s in the log", messageID)
	}

	t, err := s.resolver.Resolve(ctx, target)
	if err != nil {
		if errors.Is(err, transcript.ErrMissingLocator) {
			return fmt.Errorf("message %s has no transcript", messageID)
		}
		return err
	}

	outPath = strings.TrimSpace(outPath)
	if outPath != "" {
		html, err := transcript.HTML(t)
		if err != nil {
			return fmt.Errorf("rendering transcript: %w", err)
		}
		if err := os.WriteFile(outPath, html, 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("Wrote %s\n", outPath)
		return nil
	}

	fmt.Print(transcript.Markdown(t))
	return nil
}

func (s *session) sessionToken(ctx context.Context) error {
	token, err := s.client.SessionToken(ctx, s.controller.RoomID())
	if err != nil {
		return fmt.Errorf("fetching session token: %w", err)
	}
	fmt.Println(token)
	return nil
}

func printSessionHelp() {
	fmt.Println("Commands:")
	fmt.Println("  /more                      Load older messages")
	fmt.Println("  /participants              Show the room roster")
	fmt.Println("  /invite <email> [name]     Invite a participant")
	fmt.Println("  /attach <path>             Stage a file for the next message")
	fmt.Println("  /files                     List staged attachments")
	fmt.Println("  /remove <file-id>          Unstage an attachment")
	fmt.Println("  /transcript <id> [out]     Show a meeting transcript, or export HTML")
	fmt.Println("  /session                   Print a media session token")
	fmt.Println("  /help                      Show this help")
	fmt.Println("  /quit                      Exit")
}

func printMessage(msg *api.Message) {
	gray := color.New(color.FgHiBlack)
	gray.Printf("%s ", msg.CreatedAt.Local().Format("15:04"))

	switch msg.MessageType {
	case api.MessageTypeTranscript:
		color.New(color.FgYellow).Print("[transcript] ")
		fmt.Printf("meeting recording available (/transcript %s)\n", msg.ID)
		return
	case api.MessageTypeParticipantJoined:
		gray.Printf("-- %s joined --\n", msg.Username)
		return
	}

	color.New(color.FgCyan).Printf("%s: ", msg.Username)
	fmt.Print(msg.Content)
	if msg.Edited {
		gray.Print(" (edited)")
	}
	fmt.Println()

	for _, a := range msg.Attachments {
		gray.Printf("    📎 %s (%d bytes)\n", a.FileName, a.FileSize)
	}
	for _, r := range msg.Reactions {
		gray.Printf("    %s %d\n", r.Emoji, r.Count)
	}
}

// printAttachmentEvents renders pipeline events until the channel closes.
func printAttachmentEvents(events <-chan attach.Event) {
	gray := color.New(color.FgHiBlack)
	for ev := range events {
		switch ev.Kind {
		case attach.EventAdded:
			gray.Printf("[attach] staged %s (%s)\n", ev.File.Name, ev.File.ID)
		case attach.EventProgress:
			gray.Printf("[attach] %s %d%%\n", ev.File.Name, ev.File.Progress)
		case attach.EventUploaded:
			color.New(color.FgGreen).Printf("[attach] %s uploaded\n", ev.File.Name)
		case attach.EventFailed:
			color.New(color.FgRed).Printf("[attach] %s failed: %v\n", ev.File.Name, ev.File.Err)
		}
	}
}
