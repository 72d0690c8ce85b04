package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	signedIn bool

	calls []string
	args  []string
}

func (f *fakeExec) record(name, arg string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, arg)
}

func (f *fakeExec) isSignedIn() bool { return f.signedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", "")
	f.signedIn = true
	return nil
}
func (f *fakeExec) Signup(ctx context.Context) error { f.record("signup", ""); return nil }
func (f *fakeExec) Guest(ctx context.Context) error  { f.record("guest", ""); return nil }
func (f *fakeExec) OTP(ctx context.Context) error    { f.record("otp", ""); return nil }
func (f *fakeExec) Social(ctx context.Context, provider string) error {
	f.record("social", provider)
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", "")
	f.signedIn = false
	return nil
}
func (f *fakeExec) Avatars(ctx context.Context) error   { f.record("avatars", ""); return nil }
func (f *fakeExec) AvatarAdd(ctx context.Context) error { f.record("add", ""); return nil }
func (f *fakeExec) AvatarEdit(ctx context.Context, id string) error {
	f.record("edit", id)
	return nil
}
func (f *fakeExec) AvatarDelete(ctx context.Context, id string) error {
	f.record("delete", id)
	return nil
}
func (f *fakeExec) AvatarFilter(ctx context.Context, detail string) error {
	f.record("filter", detail)
	return nil
}
func (f *fakeExec) Users(ctx context.Context) error         { f.record("users", ""); return nil }
func (f *fakeExec) Profile(ctx context.Context) error       { f.record("profile", ""); return nil }
func (f *fakeExec) DeleteAccount(ctx context.Context) error { f.record("deleteaccount", ""); return nil }
func (f *fakeExec) Tab(ctx context.Context, name string) error {
	f.record("tab", name)
	return nil
}

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_SignInFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"avatars",
		"edit abc-123",
		"filter public",
		"users",
		"tab profile",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	wantOrder := []string{"login", "avatars", "edit", "filter", "users", "tab"}
	idx := 0
	for _, c := range exec.calls {
		if idx < len(wantOrder) && c == wantOrder[idx] {
			idx++
		}
	}
	if idx != len(wantOrder) {
		t.Fatalf("commands order mismatch: got %v, want subseq %v", exec.calls, wantOrder)
	}
}

func TestRunREPL_ArgumentsPassedThrough(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("edit abc\ndelete def\nsocial google\ntab users\nquit\n")
	exec := &fakeExec{signedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	want := []string{"abc", "def", "google", "users"}
	if len(exec.args) != len(want) {
		t.Fatalf("unexpected calls: %v / %v", exec.calls, exec.args)
	}
	for i, a := range want {
		if exec.args[i] != a {
			t.Fatalf("arg %d: got %q, want %q", i, exec.args[i], a)
		}
	}
}

func TestRunREPL_MissingArgumentsBecomeEmpty(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("edit\nfilter\nquit\n")
	exec := &fakeExec{signedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 2 || exec.args[0] != "" || exec.args[1] != "" {
		t.Fatalf("unexpected calls: %v / %v", exec.calls, exec.args)
	}
}

func TestRunREPL_AliasesDispatch(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("a\nu\nexit\n")
	exec := &fakeExec{signedIn: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "s" }, sc)

	if len(exec.calls) != 2 || exec.calls[0] != "avatars" || exec.calls[1] != "users" {
		t.Fatalf("unexpected calls: %v", exec.calls)
	}
}
