// Package builtin holds the immutable virtual diagrams and the template
// catalog. Virtual diagrams are synthesized constants: they are never
// persisted, never deleted, and never pass through the collection store.
package builtin

import "github.com/starford/dagaz/internal/models"

// Well-known virtual diagram ids.
const (
	WelcomeID  = "welcome"
	TutorialID = "tutorial"
)

const welcomeCode = `flowchart TD
    Start([🚀 Welcome to the Diagram Vault]) --> Features[✨ Key Features]

    Features --> Import[📁 Import & Export]
    Features --> Share[🔗 Share Diagrams]
    Features --> Editor[✏️ Live Editor]

    Import --> ImportFiles["📄 Drag & drop .mmd/.json files<br/>📋 Export all diagrams as backup"]
    Share --> ShareOptions["🔗 Generate shareable URLs<br/>📋 Copy links to clipboard"]
    Editor --> EditorFeatures["👁️ Live preview mode<br/>🎨 Light/dark themes"]

    Features --> GetStarted[🎯 Get Started]
    GetStarted --> NewDiagram["➕ Create a new diagram<br/>📝 Write Mermaid syntax in the editor"]

    style Start fill:#4F46E5,stroke:#1E40AF,stroke-width:3px,color:#fff
    style Features fill:#7C3AED,stroke:#5B21B6,stroke-width:2px,color:#fff
    style GetStarted fill:#059669,stroke:#047857,stroke-width:2px,color:#fff`

const tutorialCode = `flowchart TD
    Start([🎯 Mermaid Syntax Guide])
    Choice{What's your goal?}
    Start --> Choice

    Learn[📚 Learn Syntax]
    Quick[⚡ Quick Reference]
    Practice[🏗️ Build Something]
    Choice --> Learn
    Choice --> Quick
    Choice --> Practice

    subgraph QuickSyntax [⚡ Quick Syntax Reference]
        QS1["🔷 Node Shapes:<br/>A[Rectangle] B(Rounded)<br/>C{Diamond} D((Circle))"]
        QS2["➡️ Edges:<br/>A --> B arrow<br/>A --- B line<br/>A -.-> B dotted"]
        QS3["🏷️ Labels:<br/>A -->|label| B"]
    end
    Quick --> QuickSyntax

    Learn --> Types["graph, sequenceDiagram,<br/>classDiagram, stateDiagram,<br/>gantt, pie, erDiagram"]
    Practice --> Templates[📋 Start from a template]`

// WelcomeDiagram returns the welcome guide shown to first-time users.
func WelcomeDiagram() models.Diagram {
	now := models.NowMillis()
	return models.Diagram{
		ID:        WelcomeID,
		Name:      "🎉 Welcome to Mermaid Diagram Editor",
		Code:      welcomeCode,
		Theme:     models.ThemeDark,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TutorialDiagram returns the syntax tutorial.
func TutorialDiagram() models.Diagram {
	now := models.NowMillis()
	return models.Diagram{
		ID:        TutorialID,
		Name:      "📚 Mermaid Syntax Tutorial",
		Code:      tutorialCode,
		Theme:     models.ThemeDark,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Diagrams returns both virtual diagrams in display order.
func Diagrams() []models.Diagram {
	return []models.Diagram{WelcomeDiagram(), TutorialDiagram()}
}

// Template is a ready-made starting point for a new diagram.
type Template struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Icon        string `json:"icon"`
	Code        string `json:"code"`
}

var templates = []Template{
	{
		ID:          "flowchart-basic",
		Name:        "Basic Flowchart",
		Description: "Simple decision flow with start, decision, and end nodes",
		Category:    "Flowchart",
		Icon:        "🔄",
		Code: `flowchart TD
    A[Start] --> B{Is it working?}
    B -->|Yes| C[Great!]
    B -->|No| D[Fix it]
    D --> B
    C --> E[End]

    style A fill:#e1f5fe
    style E fill:#c8e6c9
    style B fill:#fff3e0`,
	},
	{
		ID:          "sequence-basic",
		Name:        "User Login Sequence",
		Description: "User authentication flow sequence diagram",
		Category:    "Sequence",
		Icon:        "👤",
		Code: `sequenceDiagram
    participant U as User
    participant F as Frontend
    participant B as Backend
    participant D as Database

    U->>+F: Enter credentials
    F->>+B: POST /login
    B->>+D: Validate user
    D-->>-B: User data
    B-->>-F: Auth token
    F-->>-U: Login success`,
	},
	{
		ID:          "class-basic",
		Name:        "Class Diagram",
		Description: "Object-oriented design with inheritance",
		Category:    "Class",
		Icon:        "🏗️",
		Code: `classDiagram
    Animal <|-- Dog
    Animal <|-- Cat
    Animal : +String name
    Animal : +makeSound()
    class Dog{
      +fetch()
    }
    class Cat{
      +purr()
    }`,
	},
	{
		ID:          "state-basic",
		Name:        "State Diagram",
		Description: "Order lifecycle state machine",
		Category:    "State",
		Icon:        "🔀",
		Code: `stateDiagram-v2
    [*] --> Pending
    Pending --> Paid : payment received
    Paid --> Shipped : dispatched
    Shipped --> Delivered
    Pending --> Cancelled : timeout
    Delivered --> [*]`,
	},
	{
		ID:          "er-basic",
		Name:        "Entity Relationship",
		Description: "Database schema with relationships",
		Category:    "ER",
		Icon:        "🗄️",
		Code: `erDiagram
    CUSTOMER ||--o{ ORDER : places
    ORDER ||--|{ LINE_ITEM : contains
    CUSTOMER {
        string name
        string email
    }
    ORDER {
        int id
        date created
    }`,
	},
	{
		ID:          "gantt-basic",
		Name:        "Project Timeline",
		Description: "Gantt chart with phases and tasks",
		Category:    "Gantt",
		Icon:        "📅",
		Code: `gantt
    title Project Plan
    dateFormat  YYYY-MM-DD
    section Design
    Wireframes      :a1, 2026-01-06, 7d
    Review          :after a1, 3d
    section Build
    Implementation  :2026-01-16, 14d
    Testing         :5d`,
	},
}

// Templates returns the template catalog.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// TemplateByID returns the template with the given id, or nil.
func TemplateByID(id string) *Template {
	for i := range templates {
		if templates[i].ID == id {
			t := templates[i]
			return &t
		}
	}
	return nil
}
