package player

import (
	"context"
	"testing"
)

func TestNew(t *testing.T) {
	for _, name := range Names {
		p, err := New(name)
		if err != nil {
			t.Errorf("New(%q) error: %v", name, err)
			continue
		}
		if p.Name() != name {
			t.Errorf("Name() = %q, want %q", p.Name(), name)
		}
	}

	if p, err := New("MPV"); err != nil || p.Name() != "mpv" {
		t.Errorf("New(MPV) = %v, %v", p, err)
	}
	if _, err := New("notepad"); err == nil {
		t.Error("New(notepad) should fail")
	}
}

func TestArgs(t *testing.T) {
	const url = "http://ht.cdn.turner.com/cnn/big/a.mp4"
	const title = "Nadal; rm -rf / $(id)"

	tests := []struct {
		player string
		want   []string
	}{
		{"mpv", []string{url, "--force-media-title=" + title, "--really-quiet"}},
		{"celluloid", []string{url, "--force-media-title=" + title, "--really-quiet"}},
		{"vlc", []string{url, "--meta-title", title, "--play-and-exit"}},
	}

	for _, tt := range tests {
		t.Run(tt.player, func(t *testing.T) {
			p, err := New(tt.player)
			if err != nil {
				t.Fatal(err)
			}
			got := p.Args(url, title)
			if len(got) != len(tt.want) {
				t.Fatalf("Args() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("arg %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlayMissingBinary(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	p, _ := New("mpv")
	if p.Available() {
		t.Fatal("mpv should not be found on an empty PATH")
	}
	if err := p.Play(context.Background(), "http://x/a.mp4", "t"); err == nil {
		t.Error("Play() should fail when the binary is missing")
	}
}
