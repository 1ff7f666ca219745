package common

// SessionCookieName is the cookie that carries the signed session token.
const SessionCookieName = "chrima_session"

// MinParticipants is the smallest group for which a derangement exists.
const MinParticipants = 2
