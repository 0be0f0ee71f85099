package auth

import "time"

func (s *TokenService) SetClock(now func() time.Time) { s.now = now }
