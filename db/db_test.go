package db

import "testing"

func TestInitFirestoreBadCredentials(t *testing.T) {
	t.Setenv("FIREBASE_CREDENTIALS", "%%% not base64 %%%")

	if _, err := InitFirestore(); err == nil {
		t.Error("Expected an error for undecodable credentials, got nil")
	}

	// The failure is sticky: a second call reports it too instead of
	// silently returning a nil client.
	if _, err := InitFirestore(); err == nil {
		t.Error("Expected the init failure to be reported on repeat calls")
	}
}
