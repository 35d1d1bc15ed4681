package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Whoami(ctx context.Context) error { f.record("whoami", nil); return nil }
func (f *fakeExec) Verify(ctx context.Context, args []string) error {
	f.record("verify", args)
	return nil
}
func (f *fakeExec) Resend(ctx context.Context) error { f.record("resend", nil); return nil }
func (f *fakeExec) Feed(ctx context.Context, args []string) error {
	f.record("feed", args)
	return nil
}
func (f *fakeExec) Topic(ctx context.Context, args []string) error {
	f.record("topic", args)
	return nil
}
func (f *fakeExec) UserPosts(ctx context.Context, args []string) error {
	f.record("user", args)
	return nil
}
func (f *fakeExec) Open(ctx context.Context, args []string) error {
	f.record("open", args)
	return nil
}
func (f *fakeExec) Vote(ctx context.Context, args []string) error {
	f.record("vote", args)
	return nil
}
func (f *fakeExec) Write(ctx context.Context) error   { f.record("write", nil); return nil }
func (f *fakeExec) Comment(ctx context.Context) error { f.record("comment", nil); return nil }
func (f *fakeExec) SetBio(ctx context.Context) error  { f.record("setbio", nil); return nil }
func (f *fakeExec) Passwd(ctx context.Context) error  { f.record("passwd", nil); return nil }

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"feed 2",
		"open 17",
		"vote 3",
		"whoami",
		"foobar",
		"logout",
		"exit",
	}, "\n"))

	exec := &fakeExec{loggedIn: false}
	scanner := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "(test)" }, scanner)

	require.Equal(t, []string{"login", "feed", "open", "vote", "whoami", "logout"}, exec.calls)
	require.Equal(t, []string{"2"}, exec.args[1])
	require.Equal(t, []string{"17"}, exec.args[2])
	require.Equal(t, []string{"3"}, exec.args[3])
	require.False(t, exec.loggedIn)
}

func TestRunREPL_ShortAliases(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("f\nv 1\nquit\n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	require.Equal(t, []string{"feed", "vote"}, exec.calls)
}

func TestRunREPL_EmptyLinesAndEOF(t *testing.T) {
	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader("\n\n   \n")
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input))

	require.Empty(t, exec.calls)
}
