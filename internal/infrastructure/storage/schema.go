package storage

// schemaSQL creates the fourteen provenance tables. Every statement is
// IF NOT EXISTS so schema creation is safe on each process start and never
// alters or drops existing tables.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS languages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    code TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS translators (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    translator TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS publication_status (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    status TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS subjects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    subject TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    subject_id INTEGER NOT NULL REFERENCES subjects(id)
);

CREATE TABLE IF NOT EXISTS topics (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic TEXT NOT NULL,
    category_id INTEGER NOT NULL REFERENCES categories(id)
);

CREATE TABLE IF NOT EXISTS platforms (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    url TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS channels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    url TEXT NOT NULL,
    platform_id INTEGER NOT NULL REFERENCES platforms(id),
    subject_id INTEGER NOT NULL REFERENCES subjects(id)
);

CREATE TABLE IF NOT EXISTS channels_categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    channel_id INTEGER NOT NULL REFERENCES channels(id),
    category_id INTEGER NOT NULL REFERENCES categories(id),
    UNIQUE (channel_id, category_id)
);

CREATE TABLE IF NOT EXISTS original_texts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    language_id INTEGER NOT NULL REFERENCES languages(id),
    text TEXT NOT NULL,
    topic_id INTEGER REFERENCES topics(id),
    created_at TEXT,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS videos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    youtube_id TEXT NOT NULL UNIQUE,
    title TEXT,
    description TEXT,
    topic_id INTEGER REFERENCES topics(id),
    text_id INTEGER REFERENCES original_texts(id),
    created_at TEXT,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS translates (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    text_id INTEGER NOT NULL REFERENCES original_texts(id),
    language_id INTEGER NOT NULL REFERENCES languages(id),
    translated_text TEXT NOT NULL,
    translator_id INTEGER NOT NULL REFERENCES translators(id),
    created_at TEXT,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS rewrites (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    rewrite_text TEXT NOT NULL,
    language_id INTEGER NOT NULL REFERENCES languages(id),
    translate_id INTEGER REFERENCES translates(id),
    topic_id INTEGER REFERENCES topics(id),
    created_at TEXT,
    updated_at TEXT
);

CREATE TABLE IF NOT EXISTS publications (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    rewrite_id INTEGER NOT NULL REFERENCES rewrites(id),
    channel_id INTEGER NOT NULL REFERENCES channels(id),
    publish_date TEXT,
    status_id INTEGER NOT NULL REFERENCES publication_status(id),
    published_url TEXT,
    created_at TEXT,
    updated_at TEXT,
    UNIQUE (rewrite_id, channel_id)
);
`
