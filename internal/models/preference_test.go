package models

import "testing"

func TestNotificationTypeValid(t *testing.T) {
	for _, known := range NotificationTypes {
		if !known.Valid() {
			t.Errorf("%q should be valid", known)
		}
	}

	for _, unknown := range []NotificationType{"", "poke", "VIDEO_LIKE", "new_video "} {
		if unknown.Valid() {
			t.Errorf("%q should be invalid", unknown)
		}
	}
}

func TestValidChannel(t *testing.T) {
	for _, channel := range Channels {
		if !ValidChannel(channel) {
			t.Errorf("%q should be valid", channel)
		}
	}
	if ValidChannel("sms") || ValidChannel("") {
		t.Error("unknown channels accepted")
	}
}

func TestDefaultNotificationPreferencesAllEnabled(t *testing.T) {
	prefs := DefaultNotificationPreferences(7)

	if prefs.UserID != 7 {
		t.Fatalf("UserID = %d, want 7", prefs.UserID)
	}
	for _, channel := range Channels {
		bucket := prefs.Bucket(channel)
		if len(bucket) != len(NotificationTypes) {
			t.Fatalf("%s bucket has %d entries, want %d", channel, len(bucket), len(NotificationTypes))
		}
		for _, notifType := range NotificationTypes {
			if !prefs.Enabled(channel, notifType) {
				t.Errorf("default %s.%s should be enabled", channel, notifType)
			}
		}
	}
}

func TestFillDefaultsBackfillsMissingEntries(t *testing.T) {
	prefs := &NotificationPreferences{
		UserID: 7,
		Email:  map[string]bool{string(TypeNewVideo): false},
	}

	if !prefs.FillDefaults() {
		t.Fatal("FillDefaults reported no change for a sparse document")
	}

	// Explicit flags survive, missing ones become true.
	if prefs.Enabled(ChannelEmail, TypeNewVideo) {
		t.Error("explicit false flag was overwritten")
	}
	if !prefs.Enabled(ChannelEmail, TypeMention) {
		t.Error("missing email flag not defaulted to true")
	}
	if !prefs.Enabled(ChannelPush, TypeNewVideo) || !prefs.Enabled(ChannelInApp, TypeNewVideo) {
		t.Error("nil buckets not defaulted")
	}

	if prefs.FillDefaults() {
		t.Error("FillDefaults reported a change on a complete document")
	}
}

func TestEnabledUnknownChannel(t *testing.T) {
	prefs := DefaultNotificationPreferences(7)
	if prefs.Enabled("sms", TypeNewVideo) {
		t.Error("unknown channel should never be enabled")
	}
}
