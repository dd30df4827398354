package postgres

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_profiles",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_skill_postings",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE PROFILES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Profiles own their skill lists and bookmarks as text arrays.
-- Skill names are free text and compared case-sensitively.
CREATE TABLE IF NOT EXISTS profiles (
    id TEXT PRIMARY KEY,
    name VARCHAR(100) NOT NULL DEFAULT 'User',
    email VARCHAR(255) UNIQUE,
    mobile VARCHAR(32) UNIQUE,
    password_hash TEXT NOT NULL,
    bio TEXT NOT NULL DEFAULT '',
    skills_to_teach TEXT[] NOT NULL DEFAULT '{}',
    skills_to_learn TEXT[] NOT NULL DEFAULT '{}',
    saved_skills TEXT[] NOT NULL DEFAULT '{}',
    is_profile_complete BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT has_login CHECK (email IS NOT NULL OR mobile IS NOT NULL)
);

-- Full scans read profiles in registration order.
CREATE INDEX IF NOT EXISTS idx_profiles_created_at ON profiles(created_at, id);
`

const migration001Down = `
DROP TABLE IF EXISTS profiles;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE SKILL POSTINGS
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
CREATE TABLE IF NOT EXISTS skill_postings (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    description VARCHAR(500) NOT NULL DEFAULT '',
    category VARCHAR(100) NOT NULL DEFAULT 'General',
    skill_type VARCHAR(10) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_skill_type CHECK (skill_type IN ('teach', 'learn'))
);

CREATE INDEX IF NOT EXISTS idx_skill_postings_user ON skill_postings(user_id);
CREATE INDEX IF NOT EXISTS idx_skill_postings_type_category ON skill_postings(skill_type, category);
`

const migration002Down = `
DROP TABLE IF EXISTS skill_postings;
`
