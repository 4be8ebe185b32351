package domain

import (
	"github.com/boardside/kilterboard-backend/internal/domain/auth"
	"github.com/boardside/kilterboard-backend/internal/domain/climbs"
	"github.com/boardside/kilterboard-backend/internal/domain/user"
)

type User = user.User
type UserToken = auth.UserToken

type Problem = climbs.Problem
type Vote = climbs.Vote
type Attempt = climbs.Attempt
type UserStatistics = climbs.UserStatistics
type AggregateRating = climbs.AggregateRating
