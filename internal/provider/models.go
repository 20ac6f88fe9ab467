package provider

// ModelType represents a standard data model type.
// Each ModelType maps to a specific data structure in pkg/models/.
type ModelType string

const (
	ModelCompanyProfile    ModelType = "CompanyProfile"
	ModelBalanceSheet      ModelType = "BalanceSheet"
	ModelCashFlowStatement ModelType = "CashFlowStatement"
	ModelIncomeStatement   ModelType = "IncomeStatement"
)

// AllModels returns every standard model type.
func AllModels() []ModelType {
	return []ModelType{
		ModelCompanyProfile,
		ModelBalanceSheet,
		ModelCashFlowStatement,
		ModelIncomeStatement,
	}
}

// StatementModels returns the model types that carry a financial statement table.
func StatementModels() []ModelType {
	return []ModelType{
		ModelBalanceSheet,
		ModelCashFlowStatement,
		ModelIncomeStatement,
	}
}

// ModelCategory returns a human-readable category for a model type.
func ModelCategory(m ModelType) string {
	switch m {
	case ModelCompanyProfile:
		return "Equity / Profile"
	case ModelBalanceSheet, ModelCashFlowStatement, ModelIncomeStatement:
		return "Equity / Fundamentals"
	default:
		return "Unknown"
	}
}
