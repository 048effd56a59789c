package domain

// Storage constraint names. The Postgres DDL and the in-memory store use the
// same names so callers see identical ConstraintError values on both backends.
const (
	ConstraintUserUsernameKey = "users_username_key"

	ConstraintProfileUserKey     = "profiles_user_id_key"
	ConstraintProfileUserFK      = "profiles_user_id_fkey"
	ConstraintProfileWeightKg    = "profile_weight_kg_positive"
	ConstraintProfileHeightCm    = "profile_height_cm_positive"
	ConstraintProfileAge         = "profile_age_positive"
	ConstraintActivityUserFK     = "activities_user_id_fkey"
	ConstraintActivityDuration   = "activity_duration_sec_positive"
	ConstraintActivityDistance   = "activity_distance_m_positive"
	ConstraintActivityElevation  = "activity_elevation_gain_m_positive"
	ConstraintActivityHeight     = "activity_height_positive"
	ConstraintActivityEndAfter   = "activity_end_time_gte_start_time"
	ConstraintPointActivityFK    = "activity_points_activity_id_fkey"
	ConstraintPointSpeed         = "activitypoint_speed_positive"
	ConstraintPointCadence       = "activitypoint_cadence_positive"
	ConstraintCommentActivityFK  = "comments_activity_id_fkey"
	ConstraintCommentUserFK      = "comments_user_id_fkey"
	ConstraintCommentParentFK    = "comments_parent_comment_id_fkey"
	ConstraintKudosActivityUser  = "kudos_activity_id_user_id_key"
	ConstraintKudosActivityFK    = "kudos_activity_id_fkey"
	ConstraintKudosUserFK        = "kudos_user_id_fkey"
	ConstraintFollowerPair       = "followers_follower_id_followee_id_key"
	ConstraintFollowerFollowerFK = "followers_follower_id_fkey"
	ConstraintFollowerFolloweeFK = "followers_followee_id_fkey"
	ConstraintStatsUserPeriod    = "user_monthly_stats_user_id_year_month_key"
	ConstraintStatsUserFK        = "user_monthly_stats_user_id_fkey"
	ConstraintStatsDistance      = "stats_distance_m_positive"
	ConstraintStatsDuration      = "stats_duration_sec_positive"
)
