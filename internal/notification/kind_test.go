package notification

import (
	"testing"

	authdomain "habitlink-backend/internal/auth/domain"
)

// Every kind must round-trip through its channel name; a kind without a
// channel would silently never be delivered.
func TestKindChannelTotality(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Kind(0); k < numKinds; k++ {
		channel := k.Channel()
		if channel == "" {
			t.Errorf("kind %d has no channel", k)
			continue
		}
		if prev, dup := seen[channel]; dup {
			t.Errorf("kinds %d and %d share channel %q", prev, k, channel)
		}
		seen[channel] = k

		back, ok := KindFromChannel(channel)
		if !ok || back != k {
			t.Errorf("KindFromChannel(%q) = %d, %v; want %d", channel, back, ok, k)
		}
	}
}

// Every kind must map to exactly one preference flag: flipping only that
// flag must flip the result.
func TestKindPreferenceTotality(t *testing.T) {
	flags := map[string]func(*authdomain.User, bool){
		"private messages":       func(u *authdomain.User, v bool) { u.NotifyPrivateMessages = v },
		"likes":                  func(u *authdomain.User, v bool) { u.NotifyLikes = v },
		"replies":                func(u *authdomain.User, v bool) { u.NotifyReplies = v },
		"challenge joins":        func(u *authdomain.User, v bool) { u.NotifyChallengeJoins = v },
		"challenge duplications": func(u *authdomain.User, v bool) { u.NotifyChallengeDuplications = v },
		"reminders":              func(u *authdomain.User, v bool) { u.NotifyReminders = v },
	}

	for k := Kind(0); k < numKinds; k++ {
		allOn := testUser("u1")
		if !k.PreferenceEnabled(allOn) {
			t.Errorf("kind %s disabled with every preference on", k.Channel())
		}

		allOff := testUser("u1")
		for _, set := range flags {
			set(allOff, false)
		}
		if k.PreferenceEnabled(allOff) {
			t.Errorf("kind %s enabled with every preference off", k.Channel())
		}

		// Exactly one flag controls each kind.
		controlling := 0
		for _, set := range flags {
			u := testUser("u1")
			set(u, false)
			if !k.PreferenceEnabled(u) {
				controlling++
			}
		}
		if controlling != 1 {
			t.Errorf("kind %s is controlled by %d flags, want exactly 1", k.Channel(), controlling)
		}
	}
}

func TestKindFromChannelRejectsInvalidationChannels(t *testing.T) {
	for _, channel := range []string{ChannelUserUpdated, ChannelUserDeleted, ChannelTokenUpdated, ChannelTokenRemoved, "bogus"} {
		if _, ok := KindFromChannel(channel); ok {
			t.Errorf("KindFromChannel(%q) resolved to a notification kind", channel)
		}
	}
}
