package autostart

import "testing"

func TestCommandLine(t *testing.T) {
	tests := []struct {
		name string
		exe  string
		args []string
		want string
	}{
		{name: "plain", exe: `C:\Tools\hider.exe`, want: `"C:\Tools\hider.exe"`},
		{name: "spaces", exe: `C:\Program Files\Hider\hider.exe`, want: `"C:\Program Files\Hider\hider.exe"`},
		{name: "already quoted", exe: `"C:\x.exe"`, want: `"C:\x.exe"`},
		{name: "args", exe: `C:\x.exe`, args: []string{"-config", `C:\My Config\c.yaml`}, want: `"C:\x.exe" -config "C:\My Config\c.yaml"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommandLine(tt.exe, tt.args...); got != tt.want {
				t.Fatalf("CommandLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMatches(t *testing.T) {
	exe := `C:\Program Files\Hider\hider.exe`
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "quoted", value: `"C:\Program Files\Hider\hider.exe"`, want: true},
		{name: "quoted with args", value: `"c:\program files\hider\hider.exe" -console`, want: true},
		{name: "unquoted", value: `C:\Tools\hider.exe -x`, want: false},
		{name: "unterminated quote", value: `"C:\Program Files`, want: false},
		{name: "empty", value: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.value, exe); got != tt.want {
				t.Fatalf("Matches(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
	if !Matches(`C:\Tools\hider.exe -x`, `C:\Tools\hider.exe`) {
		t.Fatal("unquoted value should match its own path")
	}
}

func TestParseAction(t *testing.T) {
	for _, in := range []string{"on", " OFF ", "Status"} {
		if _, err := ParseAction(in); err != nil {
			t.Errorf("ParseAction(%q) error = %v", in, err)
		}
	}
	if _, err := ParseAction("toggle"); err == nil {
		t.Error("ParseAction(toggle) expected error")
	}
}

func TestApplyUnknownAction(t *testing.T) {
	if _, err := Apply(Action("flip"), `C:\x.exe`); err == nil {
		t.Fatal("Apply() with unknown action expected error")
	}
}
