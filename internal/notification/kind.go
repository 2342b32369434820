package notification

import (
	authdomain "habitlink-backend/internal/auth/domain"
)

// Kind identifies one category of user-facing notification. The set is
// closed: every kind maps to exactly one bus channel and exactly one
// per-category preference flag, and both mappings are checked exhaustively
// so an unmapped new kind fails tests instead of silently never pushing.
type Kind int

const (
	KindPrivateMessageCreated Kind = iota
	KindPrivateMessageUpdated
	KindPublicMessageLiked
	KindPublicMessageReplied
	KindChallengeJoined
	KindChallengeDuplicated
	KindHabitReminder

	numKinds // keep last
)

// Channel returns the bus channel name this kind travels on. It doubles as
// the "type" field of frames written to live sessions.
func (k Kind) Channel() string {
	switch k {
	case KindPrivateMessageCreated:
		return ChannelPrivateMessageCreated
	case KindPrivateMessageUpdated:
		return ChannelPrivateMessageUpdated
	case KindPublicMessageLiked:
		return ChannelPublicMessageLiked
	case KindPublicMessageReplied:
		return ChannelPublicMessageReplied
	case KindChallengeJoined:
		return ChannelChallengeJoined
	case KindChallengeDuplicated:
		return ChannelChallengeDuplicated
	case KindHabitReminder:
		return ChannelHabitReminder
	}
	return ""
}

// KindFromChannel resolves a bus channel name back to its kind.
func KindFromChannel(channel string) (Kind, bool) {
	switch channel {
	case ChannelPrivateMessageCreated:
		return KindPrivateMessageCreated, true
	case ChannelPrivateMessageUpdated:
		return KindPrivateMessageUpdated, true
	case ChannelPublicMessageLiked:
		return KindPublicMessageLiked, true
	case ChannelPublicMessageReplied:
		return KindPublicMessageReplied, true
	case ChannelChallengeJoined:
		return KindChallengeJoined, true
	case ChannelChallengeDuplicated:
		return KindChallengeDuplicated, true
	case ChannelHabitReminder:
		return KindHabitReminder, true
	}
	return 0, false
}

// PreferenceEnabled reports whether the user's per-category switch for this
// kind is on. The master NotificationsEnabled switch is checked separately
// by the dispatcher.
func (k Kind) PreferenceEnabled(u *authdomain.User) bool {
	switch k {
	case KindPrivateMessageCreated, KindPrivateMessageUpdated:
		return u.NotifyPrivateMessages
	case KindPublicMessageLiked:
		return u.NotifyLikes
	case KindPublicMessageReplied:
		return u.NotifyReplies
	case KindChallengeJoined:
		return u.NotifyChallengeJoins
	case KindChallengeDuplicated:
		return u.NotifyChallengeDuplications
	case KindHabitReminder:
		return u.NotifyReminders
	}
	return false
}
