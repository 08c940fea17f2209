package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"talk-gate/domain"
	"time"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

var errUsage = stderrors.New("usage")

type command struct {
	usage   string
	minArgs int
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"identity": {usage: "identity <id> <name>", minArgs: 2, run: addIdentity},
	"ask":      {usage: "ask <requester> <grantor>", minArgs: 2, run: askPermission},
	"grant":    {usage: "grant <grantor> <requester>", minArgs: 2, run: grantPermission},
	"deny":     {usage: "deny <grantor> <requester>", minArgs: 2, run: denyPermission},
	"end":      {usage: "end <actor> <peer>", minArgs: 2, run: endConversation},
	"send":     {usage: "send <sender> <recipient> <message...>", minArgs: 3, run: sendMessage},
	"show":     {usage: "show <identity> <peer>", minArgs: 2, run: showConversation},
	"inbox":    {usage: "inbox <identity>", minArgs: 1, run: showInbox},
	"requests": {usage: "requests <identity>", minArgs: 1, run: showRequests},
	"search":   {usage: "search [-limit n] <identity> <text...>", minArgs: 2, run: searchMessages},
}

var commandOrder = []string{"identity", "ask", "grant", "deny", "end", "send", "show", "inbox", "requests", "search"}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: talkgate <command> [arguments]")
	fmt.Fprintln(os.Stderr)
	for _, name := range commandOrder {
		fmt.Fprintf(os.Stderr, "  %s\n", commands[name].usage)
	}
}

func (a *app) dispatch(ctx context.Context, name string, args []string) error {
	cmd, ok := commands[name]
	if !ok {
		printUsage()
		return fmt.Errorf("%w: unknown command %q", errUsage, name)
	}
	if len(args) < cmd.minArgs {
		return fmt.Errorf("%w: talkgate %s", errUsage, cmd.usage)
	}
	ctx, cancel := context.WithTimeout(ctx, a.config.StoreTimeout)
	defer cancel()
	return cmd.run(ctx, a, args)
}

func addIdentity(ctx context.Context, a *app, args []string) error {
	identity := domain.Identity{
		ID:        args[0],
		Name:      strings.Join(args[1:], " "),
		CreatedAt: time.Now().UTC(),
	}
	if err := a.identities.Save(ctx, identity); err != nil {
		return err
	}
	fmt.Printf("Identity %s saved\n", color.Cyan.Sprint(identity.ID))
	return nil
}

func askPermission(ctx context.Context, a *app, args []string) error {
	conversation, err := a.permissions.AskPermission(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	return nil
}

func grantPermission(ctx context.Context, a *app, args []string) error {
	conversation, err := a.permissions.GrantPermission(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	return nil
}

func denyPermission(ctx context.Context, a *app, args []string) error {
	conversation, err := a.permissions.DenyPermission(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	return nil
}

func endConversation(ctx context.Context, a *app, args []string) error {
	conversation, err := a.permissions.EndConversation(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	return nil
}

func sendMessage(ctx context.Context, a *app, args []string) error {
	conversation, err := a.permissions.SendPrivateMessage(ctx, args[0], args[1], strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	return nil
}

func showConversation(ctx context.Context, a *app, args []string) error {
	conversation, err := a.conversations.FindPrivateConversation(ctx, args[:2])
	if err != nil {
		return err
	}
	printConversation(os.Stdout, conversation, args[0])
	printMessages(os.Stdout, conversation.Messages)
	return nil
}

func showInbox(ctx context.Context, a *app, args []string) error {
	conversations, err := a.conversations.GetInbox(ctx, args[0])
	if err != nil {
		return err
	}
	printConversations(os.Stdout, conversations, args[0])
	return nil
}

func showRequests(ctx context.Context, a *app, args []string) error {
	conversations, err := a.permissions.FindRequestsReceived(ctx, args[0])
	if err != nil {
		return err
	}
	printConversations(os.Stdout, conversations, args[0])
	return nil
}

func searchMessages(ctx context.Context, a *app, args []string) error {
	flags := flag.NewFlagSet("search", flag.ContinueOnError)
	limit := flags.Int("limit", 0, "Maximum number of hits")
	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	rest := flags.Args()
	if len(rest) < 2 {
		return fmt.Errorf("%w: talkgate search [-limit n] <identity> <text...>", errUsage)
	}
	hits, err := a.conversations.SearchMessages(ctx, rest[0], strings.Join(rest[1:], " "), *limit)
	if err != nil {
		return err
	}

	table := newTable(os.Stdout, "Conversation", "Sender", "At", "Message", "Score")
	for _, hit := range hits {
		table.Append([]string{
			shortID(hit.ConversationID),
			hit.SenderID,
			hit.At.Format(time.DateTime),
			hit.Body,
			fmt.Sprintf("%.2f", hit.Score),
		})
	}
	table.Render()
	return nil
}

func printConversation(w io.Writer, c domain.Conversation, viewerID string) {
	fmt.Fprintf(w, "Conversation %s with %s: %s\n",
		shortID(c.ID), strings.Join(c.ParticipantNamesWithout(viewerID), ", "), colorStatus(c.Status))
	if len(c.Pending) > 0 {
		fmt.Fprintf(w, "%d message(s) waiting for permission\n", len(c.Pending))
	}
}

func printConversations(w io.Writer, conversations []domain.Conversation, viewerID string) {
	table := newTable(w, "Conversation", "With", "Status", "Last message", "Updated")
	for _, c := range conversations {
		last := ""
		if m, ok := c.LatestMessage(); ok {
			last = m.Sender.Name + ": " + m.Body
		}
		table.Append([]string{
			shortID(c.ID),
			strings.Join(c.ParticipantNamesWithout(viewerID), ", "),
			colorStatus(c.Status),
			last,
			c.UpdatedAt.Format(time.DateTime),
		})
	}
	table.Render()
}

func printMessages(w io.Writer, messages []domain.Message) {
	table := newTable(w, "At", "From", "Lang", "Message")
	for _, m := range messages {
		table.Append([]string{m.CreatedAt.Format(time.DateTime), m.Sender.Name, m.Lang, m.Body})
	}
	table.Render()
}

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetColumnSeparator("")
	table.SetTablePadding("\t")
	return table
}

func colorStatus(s domain.Status) string {
	switch s {
	case domain.StatusStarted:
		return color.Green.Sprint(s)
	case domain.StatusRequested:
		return color.Yellow.Sprint(s)
	default:
		return color.Red.Sprint(s)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
