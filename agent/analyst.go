package agent

import (
	"context"
	"fmt"

	"github.com/etnz/returns"
	"github.com/etnz/returns/renderer"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used by experts.
const DefaultModel = "gemini-2.5-flash"

const dateDescription = `The date of the valuation, today by default.
Accepts YYYY-MM-DD dates, and dates relative to today: "-1d" for yesterday,
"-2w" for two weeks ago, "-3m" for three months ago, "-1y" for a year ago.`

// creates the facilitator
func newFacilitator(model string, experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand how well his investments performed.
			Devise a plan of questions to ask to each expert and come up with the best response to the user's request.
			Always quote the figures the experts computed, never compute rates of return yourself.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader creates an expert grounded in Google Search, for news about the
// securities in the portfolio.
func NewTrader(model string) *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// Portfolio is the ledger and quotes the Analyst works on.
type Portfolio struct {
	Ledger   *returns.Ledger
	Quotes   *returns.Quotes
	Analyzer *returns.Analyzer
}

// NewAnalyst creates the expert computing returns on the portfolio.
func NewAnalyst(model string, p *Portfolio) *Expert {
	lib := p.Functions()
	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He knows the user's portfolio: its transactions, holdings and quotes.
		He computes the value of the portfolio and its rates of return (XIRR, MIRR, TWR), for the whole
		portfolio or a single security.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's portfolio.
				You know how to use the Tools to compute the value and the performance of the portfolio.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				XIRR and MIRR are money-weighted: they measure the investor's decisions.
				TWR is time-weighted: it measures the securities, whatever the timing of purchases and sales.
				A metric reported as N/A cannot be computed from the data, say so rather than guessing.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Functions returns the tools computing on the portfolio.
func (p *Portfolio) Functions() []Function {
	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "portfolio_analysis",
				Description: `Computes the value, simple return, XIRR, MIRR, TWR and average holding period of the portfolio,
				and the same figures for each security. Restrict it to a single security with 'symbol'.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date":   {Type: genai.TypeString, Description: dateDescription},
						"symbol": {Type: genai.TypeString, Description: "The ticker of a security in the portfolio. All securities by default."},
					},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown report of the analysis.",
				},
			},
			Func: p.analysis,
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "holdings",
				Description: `Lists the securities held on a date, with their quantity, current price and value.`,
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"date": {Type: genai.TypeString, Description: dateDescription},
					},
				},
				Response: &genai.Schema{
					Type:        genai.TypeString,
					Description: "A markdown table of the holdings.",
				},
			},
			Func: p.holdings,
		},
	}
}

func (p *Portfolio) analysis(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	const name = "portfolio_analysis"
	on, err := parseDate(args)
	if err != nil {
		return errorResponse(id, name, err)
	}
	symbol, err := stringArg(args, "symbol")
	if err != nil {
		return errorResponse(id, name, err)
	}

	ledger := p.Ledger
	if symbol != "" {
		ledger = ledger.Symbol(symbol)
		if ledger.Len() == 0 {
			return errorResponse(id, name, fmt.Errorf("no transaction on %q, known symbols are %v", symbol, p.Ledger.Symbols()))
		}
	}
	a, err := p.Analyzer.Analyze(ctx, ledger, p.Quotes, on)
	if err != nil {
		return errorResponse(id, name, err)
	}
	return outputResponse(id, name, renderer.RenderAnalysis(a))
}

func (p *Portfolio) holdings(_ context.Context, id string, args map[string]any) *genai.FunctionResponse {
	const name = "holdings"
	on, err := parseDate(args)
	if err != nil {
		return errorResponse(id, name, err)
	}
	v, err := returns.NewValuation(p.Ledger.Until(on), p.Quotes, on)
	if err != nil {
		return errorResponse(id, name, err)
	}
	return outputResponse(id, name, renderer.RenderHoldings(v))
}

func parseDate(args map[string]any) (returns.Date, error) {
	s, err := stringArg(args, "date")
	if err != nil || s == "" {
		return returns.Today(), err
	}
	on, err := returns.ParseDate(s)
	if err != nil {
		return returns.Today(), fmt.Errorf("argument 'date' must be a valid date got %q:\n\n%s", s, dateDescription)
	}
	return on, nil
}
