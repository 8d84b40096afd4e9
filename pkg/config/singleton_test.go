package config

import "testing"

func TestSingleton(t *testing.T) {
	prev := GetConfig()
	t.Cleanup(func() { SetConfig(prev) })

	SetConfig(nil)
	func() {
		defer func() {
			if recover() == nil {
				t.Error("MustGetConfig() did not panic without configuration")
			}
		}()
		MustGetConfig()
	}()

	cfg := Default()
	SetConfig(cfg)
	if GetConfig() != cfg {
		t.Error("GetConfig() did not return the installed configuration")
	}

	path := writeConfig(t, "batch: {concurrency: 3}\n")
	if err := ReloadConfig(path); err != nil {
		t.Fatalf("ReloadConfig() error = %v", err)
	}
	if got := MustGetConfig().Batch.Concurrency; got != 3 {
		t.Errorf("Batch.Concurrency = %d, want 3", got)
	}

	bad := writeConfig(t, "batch: {concurrency: -3}\n")
	if err := ReloadConfig(bad); err == nil {
		t.Error("ReloadConfig() with invalid file returned nil")
	}
	if got := MustGetConfig().Batch.Concurrency; got != 3 {
		t.Errorf("failed reload replaced configuration: concurrency = %d", got)
	}
}
