// ABOUTME: SQLite database schema for the personal health-data store
// ABOUTME: Creates all tables and indexes for bloodwork, DNA, supplements, protocols, knowledge
package sqlite

// Schema contains all SQL statements for database initialization. The
// knowledge_links.target_id column is polymorphic (the table it references is
// named by link_type), so it carries no foreign key; integrity is enforced in
// the knowledge store at insert time.
const Schema = `
-- Bloodwork: lab reports -> panels -> biomarkers
CREATE TABLE IF NOT EXISTS lab_reports (
    id TEXT PRIMARY KEY,
    lab_provider TEXT NOT NULL,
    collected_date TEXT NOT NULL,
    received_date TEXT,
    reported_date TEXT,
    source_file TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS panels (
    id TEXT PRIMARY KEY,
    lab_report_id TEXT NOT NULL REFERENCES lab_reports(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    comment TEXT
);

CREATE TABLE IF NOT EXISTS biomarkers (
    id TEXT PRIMARY KEY,
    panel_id TEXT NOT NULL REFERENCES panels(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    code TEXT NOT NULL,
    value REAL NOT NULL,
    unit TEXT NOT NULL,
    reference_low REAL,
    reference_high REAL,
    flag TEXT NOT NULL DEFAULT 'normal'
);

-- DNA: tests -> SNPs
CREATE TABLE IF NOT EXISTS dna_tests (
    id TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    collected_date TEXT NOT NULL,
    source_file TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS snps (
    id TEXT PRIMARY KEY,
    dna_test_id TEXT NOT NULL REFERENCES dna_tests(id) ON DELETE CASCADE,
    rsid TEXT NOT NULL,
    genotype TEXT NOT NULL,
    magnitude REAL NOT NULL,
    repute TEXT,
    gene TEXT NOT NULL
);

-- Supplements: labels -> blends -> ingredients
CREATE TABLE IF NOT EXISTS supplement_labels (
    id TEXT PRIMARY KEY,
    source_file TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    brand TEXT NOT NULL,
    product_name TEXT NOT NULL,
    form TEXT NOT NULL,
    serving_size TEXT NOT NULL,
    servings_per_container INTEGER,
    suggested_use TEXT,
    warnings TEXT,
    allergen_info TEXT
);

CREATE TABLE IF NOT EXISTS proprietary_blends (
    id TEXT PRIMARY KEY,
    supplement_label_id TEXT NOT NULL REFERENCES supplement_labels(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    total_amount REAL,
    total_unit TEXT
);

CREATE TABLE IF NOT EXISTS ingredients (
    id TEXT PRIMARY KEY,
    supplement_label_id TEXT REFERENCES supplement_labels(id) ON DELETE CASCADE,
    blend_id TEXT REFERENCES proprietary_blends(id) ON DELETE CASCADE,
    type TEXT NOT NULL,
    name TEXT NOT NULL,
    code TEXT NOT NULL,
    amount REAL,
    unit TEXT,
    percent_dv REAL,
    form TEXT
);

-- Protocols: supplement regimens from providers
CREATE TABLE IF NOT EXISTS supplement_protocols (
    id TEXT PRIMARY KEY,
    protocol_date TEXT NOT NULL,
    prescriber TEXT,
    next_visit TEXT,
    source_file TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    protein_goal TEXT,
    lifestyle_notes TEXT
);

CREATE TABLE IF NOT EXISTS protocol_supplements (
    id TEXT PRIMARY KEY,
    protocol_id TEXT NOT NULL REFERENCES supplement_protocols(id) ON DELETE CASCADE,
    supplement_label_id TEXT,
    type TEXT NOT NULL,
    name TEXT NOT NULL,
    instructions TEXT,
    dosage TEXT,
    frequency TEXT NOT NULL,
    upon_waking INTEGER DEFAULT 0,
    breakfast INTEGER DEFAULT 0,
    mid_morning INTEGER DEFAULT 0,
    lunch INTEGER DEFAULT 0,
    mid_afternoon INTEGER DEFAULT 0,
    dinner INTEGER DEFAULT 0,
    before_sleep INTEGER DEFAULT 0
);

-- Knowledge ledger: versioned entries with tags and polymorphic links
CREATE TABLE IF NOT EXISTS knowledge (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'active',
    summary TEXT NOT NULL,
    content TEXT NOT NULL,
    confidence REAL NOT NULL,
    supersedes_id TEXT REFERENCES knowledge(id),
    supersession_reason TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS knowledge_tags (
    id TEXT PRIMARY KEY,
    knowledge_id TEXT NOT NULL REFERENCES knowledge(id) ON DELETE CASCADE,
    tag TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS knowledge_links (
    id TEXT PRIMARY KEY,
    knowledge_id TEXT NOT NULL REFERENCES knowledge(id) ON DELETE CASCADE,
    link_type TEXT NOT NULL,
    target_id TEXT NOT NULL
);

-- Indexes for efficient querying
CREATE INDEX IF NOT EXISTS idx_panels_report ON panels(lab_report_id);
CREATE INDEX IF NOT EXISTS idx_biomarkers_panel ON biomarkers(panel_id);
CREATE INDEX IF NOT EXISTS idx_biomarkers_code ON biomarkers(code);
CREATE INDEX IF NOT EXISTS idx_snps_test ON snps(dna_test_id);
CREATE INDEX IF NOT EXISTS idx_snps_rsid ON snps(rsid);
CREATE INDEX IF NOT EXISTS idx_snps_gene ON snps(gene);
CREATE INDEX IF NOT EXISTS idx_blends_label ON proprietary_blends(supplement_label_id);
CREATE INDEX IF NOT EXISTS idx_ingredients_label ON ingredients(supplement_label_id);
CREATE INDEX IF NOT EXISTS idx_ingredients_code ON ingredients(code);
CREATE INDEX IF NOT EXISTS idx_protocol_supplements_protocol ON protocol_supplements(protocol_id);
CREATE INDEX IF NOT EXISTS idx_knowledge_status ON knowledge(status);
CREATE INDEX IF NOT EXISTS idx_knowledge_tags_knowledge ON knowledge_tags(knowledge_id);
CREATE INDEX IF NOT EXISTS idx_knowledge_tags_tag ON knowledge_tags(tag);
CREATE INDEX IF NOT EXISTS idx_knowledge_links_knowledge ON knowledge_links(knowledge_id);
CREATE INDEX IF NOT EXISTS idx_knowledge_links_target ON knowledge_links(link_type, target_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
