package postgresql

import "github.com/dukex/flowgraph/pkg/persistence/sqlbase"

func migrations() []sqlbase.Migration {
	return []sqlbase.Migration{
		{
			Version:     1,
			Description: "workflows",
			SQL: `
				CREATE TABLE workflows (
					id VARCHAR(255) PRIMARY KEY,
					name VARCHAR(255) NOT NULL DEFAULT '',
					created_at TIMESTAMP WITH TIME ZONE NOT NULL,
					updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_workflows_deleted_at ON workflows(deleted_at);
			`,
		},
		{
			Version:     2,
			Description: "graph snapshot nodes and edges",
			// Rows are keyed by declaration position; node and edge ids are not trusted to be unique.
			SQL: `
				CREATE TABLE workflow_nodes (
					workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
					position INT NOT NULL,
					id VARCHAR(255) NOT NULL,
					node_type VARCHAR(255) NOT NULL,
					category VARCHAR(50) NOT NULL DEFAULT '',
					inputs JSONB NOT NULL DEFAULT '[]',
					outputs JSONB NOT NULL DEFAULT '[]',
					PRIMARY KEY (workflow_id, position)
				);

				CREATE TABLE workflow_edges (
					workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
					position INT NOT NULL,
					id VARCHAR(255) NOT NULL,
					source_node_id VARCHAR(255) NOT NULL,
					source_port_id VARCHAR(255) NOT NULL,
					target_node_id VARCHAR(255) NOT NULL,
					target_port_id VARCHAR(255) NOT NULL,
					PRIMARY KEY (workflow_id, position)
				);

				CREATE INDEX idx_workflow_edges_target ON workflow_edges(workflow_id, target_node_id);
			`,
		},
	}
}
