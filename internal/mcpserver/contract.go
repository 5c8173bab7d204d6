package mcpserver

// DiagramFormatContract describes the Mermaid source format that LLM
// consumers should follow when creating diagrams.
const DiagramFormatContract = `# Dagaz Diagram Format Contract

Every diagram stored in Dagaz is plain Mermaid source text.

## Structure

` + "```" + `mermaid
flowchart TD
    A[Start] --> B{Decision}
    B -->|Yes| C[Done]
    B -->|No| A
` + "```" + `

## Rules

1. **The first line declares the diagram type.** Supported types include
   ` + "`" + `flowchart` + "`" + `, ` + "`" + `graph` + "`" + `, ` + "`" + `sequenceDiagram` + "`" + `, ` + "`" + `classDiagram` + "`" + `,
   ` + "`" + `stateDiagram-v2` + "`" + `, ` + "`" + `erDiagram` + "`" + `, ` + "`" + `gantt` + "`" + `, ` + "`" + `pie` + "`" + `, ` + "`" + `journey` + "`" + `,
   ` + "`" + `mindmap` + "`" + `, and ` + "`" + `timeline` + "`" + `.
2. **No fences.** Store bare Mermaid source, not a Markdown code block.
3. **Node ids** are short identifiers (A, B, Login); display text goes in
   the bracket label: ` + "`" + `A[Display text]` + "`" + `.
4. **Unicode is fine.** Labels may contain any language and emoji; the
   vault preserves them through every exchange channel.
5. **Keep one diagram per document.** The vault models a document as a
   single renderable diagram; split unrelated flows into separate diagrams
   and group them with a collection.
6. **Styling** uses ` + "`" + `style` + "`" + ` / ` + "`" + `classDef` + "`" + ` lines at the end of the source.

## Example

` + "```" + `mermaid
sequenceDiagram
    participant U as User
    participant S as Server
    U->>+S: GET /api/diagrams
    S-->>-U: 200 OK
` + "```" + `
`
