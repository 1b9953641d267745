package store

const postgresSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash BYTEA NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL CHECK (role IN ('owner', 'artist')),
	phone         TEXT NOT NULL DEFAULT '',
	birth_date    DATE,
	dni           TEXT NOT NULL DEFAULT '',
	profile_image TEXT NOT NULL DEFAULT '',
	active        BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS owner_profiles (
	id                  UUID PRIMARY KEY,
	account_id          UUID NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
	business_name       TEXT NOT NULL DEFAULT '',
	business_type       TEXT NOT NULL DEFAULT '',
	address             TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	province            TEXT NOT NULL DEFAULT '',
	capacity            INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
	description         TEXT NOT NULL DEFAULT '',
	contact_alt         TEXT NOT NULL DEFAULT '',
	schedule_text       TEXT NOT NULL DEFAULT '',
	schedule            JSONB NOT NULL DEFAULT '{}',
	additional_services JSONB NOT NULL DEFAULT '[]',
	hiring_policies     TEXT NOT NULL DEFAULT '',
	cuit_cuil           TEXT NOT NULL DEFAULT '',
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS artist_profiles (
	id                UUID PRIMARY KEY,
	account_id        UUID NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
	stage_name        TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL DEFAULT '',
	experience_years  INTEGER NOT NULL DEFAULT 0 CHECK (experience_years >= 0),
	portfolio_url     TEXT NOT NULL DEFAULT '',
	bio               TEXT NOT NULL DEFAULT '',
	instagram         TEXT NOT NULL DEFAULT '',
	tiktok            TEXT NOT NULL DEFAULT '',
	facebook          TEXT NOT NULL DEFAULT '',
	other_socials     TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	neighborhood      TEXT NOT NULL DEFAULT '',
	availability      JSONB NOT NULL DEFAULT '{}',
	availability_text TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS profile_media (
	id           UUID PRIMARY KEY,
	account_id   UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	file         TEXT NOT NULL,
	media_type   TEXT NOT NULL CHECK (media_type IN ('image', 'video', 'other')),
	content_type TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS profile_media_account_idx ON profile_media (account_id);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_idx ON accounts (LOWER(email));
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS accounts (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	password_hash BLOB NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	role          TEXT NOT NULL CHECK (role IN ('owner', 'artist')),
	phone         TEXT NOT NULL DEFAULT '',
	birth_date    DATE,
	dni           TEXT NOT NULL DEFAULT '',
	profile_image TEXT NOT NULL DEFAULT '',
	active        BOOLEAN NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS owner_profiles (
	id                  TEXT PRIMARY KEY,
	account_id          TEXT NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
	business_name       TEXT NOT NULL DEFAULT '',
	business_type       TEXT NOT NULL DEFAULT '',
	address             TEXT NOT NULL DEFAULT '',
	city                TEXT NOT NULL DEFAULT '',
	province            TEXT NOT NULL DEFAULT '',
	capacity            INTEGER NOT NULL DEFAULT 0 CHECK (capacity >= 0),
	description         TEXT NOT NULL DEFAULT '',
	contact_alt         TEXT NOT NULL DEFAULT '',
	schedule_text       TEXT NOT NULL DEFAULT '',
	schedule            TEXT NOT NULL DEFAULT '{}',
	additional_services TEXT NOT NULL DEFAULT '[]',
	hiring_policies     TEXT NOT NULL DEFAULT '',
	cuit_cuil           TEXT NOT NULL DEFAULT '',
	created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS artist_profiles (
	id                TEXT PRIMARY KEY,
	account_id        TEXT NOT NULL UNIQUE REFERENCES accounts(id) ON DELETE CASCADE,
	stage_name        TEXT NOT NULL DEFAULT '',
	category          TEXT NOT NULL DEFAULT '',
	experience_years  INTEGER NOT NULL DEFAULT 0 CHECK (experience_years >= 0),
	portfolio_url     TEXT NOT NULL DEFAULT '',
	bio               TEXT NOT NULL DEFAULT '',
	instagram         TEXT NOT NULL DEFAULT '',
	tiktok            TEXT NOT NULL DEFAULT '',
	facebook          TEXT NOT NULL DEFAULT '',
	other_socials     TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	neighborhood      TEXT NOT NULL DEFAULT '',
	availability      TEXT NOT NULL DEFAULT '{}',
	availability_text TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS profile_media (
	id           TEXT PRIMARY KEY,
	account_id   TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	file         TEXT NOT NULL,
	media_type   TEXT NOT NULL CHECK (media_type IN ('image', 'video', 'other')),
	content_type TEXT NOT NULL DEFAULT '',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS profile_media_account_idx ON profile_media (account_id);
CREATE UNIQUE INDEX IF NOT EXISTS accounts_email_lower_idx ON accounts (LOWER(email));
`
