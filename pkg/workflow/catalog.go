package workflow

import (
	"github.com/aretw0/lectern/pkg/domain"
	"github.com/aretw0/lectern/pkg/dsl"
)

// Built-in workflow IDs.
const (
	CreatePresentation = "create-presentation"
	PolishPresentation = "polish-presentation"
	ImproveSlide       = "improve-slide"
	AccessibilityAudit = "accessibility-audit"
	QuickOutline       = "quick-outline"
)

// DefaultWorkflows returns the built-in catalog.
func DefaultWorkflows() []domain.Workflow {
	create := dsl.New(CreatePresentation).
		Named("Create presentation").
		Describe("Generate a deck from a topic, clean it up, format it and review the result.").
		Category("generation").
		Tags("generate", "format", "ai")
	create.Step("generate").Named("Generate slides").Generate(domain.GeneratePresentation)
	create.Step("normalize").Named("Normalize content").
		Transform(OpNormalizeText, OpEnsureIDs).
		After("generate")
	create.Step("format").Named("Apply formatting").Format(ScopePresentation).After("normalize")
	create.Step("review").Named("Suggest improvements").Analyze().After("format").Optional()

	polish := dsl.New(PolishPresentation).
		Named("Polish presentation").
		Describe("Normalize, format and validate an existing deck.").
		Category("formatting").
		Tags("format", "cleanup", "validate")
	polish.Step("normalize").Named("Normalize content").Transform(OpNormalizeText, OpEnsureIDs, OpSortByPosition)
	polish.Step("format").Named("Apply formatting").Format(ScopePresentation).After("normalize")
	polish.Step("validate").Named("Validate structure").Validate().
		Param("requireTitle", true).
		After("format").
		Optional()

	improve := dsl.New(ImproveSlide).
		Named("Improve slide").
		Describe("Format the current slide and suggest improvements for it.").
		Category("editing").
		Tags("slide", "suggestions", "format")
	improve.Step("format").Named("Format slide").Format(ScopeSlide)
	improve.Step("analyze").Named("Analyze slide").Analyze().Param("scope", ScopeSlide).After("format")

	audit := dsl.New(AccessibilityAudit).
		Named("Accessibility audit").
		Describe("Score every slide and flag accessibility problems without changing content.").
		Category("review").
		Tags("accessibility", "a11y", "review")
	audit.Step("validate").Named("Validate structure").Validate()
	audit.Step("analyze").Named("Score slides").Analyze()

	outline := dsl.New(QuickOutline).
		Named("Quick outline").
		Describe("Draft an outline for a topic.").
		Category("generation").
		Tags("generate", "outline", "ai")
	outline.Step("generate").Named("Generate outline").Generate(domain.GenerateOutline)
	outline.Step("ids").Named("Assign ids").Transform(OpEnsureIDs).After("generate")

	return []domain.Workflow{
		create.MustBuild(),
		polish.MustBuild(),
		improve.MustBuild(),
		audit.MustBuild(),
		outline.MustBuild(),
	}
}
