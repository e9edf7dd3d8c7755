package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE workflows (
				id UUID PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				nodes JSONB NOT NULL DEFAULT '[]',
				edges JSONB NOT NULL DEFAULT '[]',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				is_active BOOLEAN NOT NULL DEFAULT true
			);

			CREATE INDEX idx_workflows_is_active ON workflows(is_active);
			CREATE INDEX idx_workflows_updated_at ON workflows(updated_at);
		`,
		2: `
			CREATE TABLE documents (
				id UUID PRIMARY KEY,
				filename VARCHAR(512) NOT NULL,
				original_filename VARCHAR(512) NOT NULL,
				content_type VARCHAR(255) NOT NULL,
				size BIGINT NOT NULL,
				content TEXT,
				embedding_ids JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				processed BOOLEAN NOT NULL DEFAULT false
			);

			CREATE INDEX idx_documents_created_at ON documents(created_at);
		`,
		3: `
			CREATE TABLE chat_history (
				id UUID PRIMARY KEY,
				session_id VARCHAR(255) NOT NULL,
				role VARCHAR(50) NOT NULL CHECK (role IN ('user', 'assistant', 'system')),
				content TEXT NOT NULL,
				workflow_id UUID,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				metadata JSONB
			);

			CREATE INDEX idx_chat_history_session_id ON chat_history(session_id);
			CREATE INDEX idx_chat_history_created_at ON chat_history(created_at);
		`,
	}
}
