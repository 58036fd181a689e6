package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vampirenirmal/codesmith/internal/core"
)

const testerSystemMessage = `You are a Senior Test Engineer specializing in Python testing with pytest.

Your responsibilities:
1. Generate comprehensive, executable pytest test cases
2. Create at least one functional test per module/function
3. Ensure tests are complete and runnable without modification
4. Cover normal cases, edge cases, and error scenarios
5. Use pytest best practices (fixtures, parametrization where appropriate)
6. Include test execution results in comments showing expected outputs

Test Requirements:
- All tests must be executable immediately
- Use proper pytest syntax and assertions
- Include descriptive test names
- Test both success and failure scenarios
- No placeholders or incomplete tests

Output only the Python test code, properly formatted and ready for execution.`

// TestWriter produces pytest test code for the final code.
type TestWriter struct {
	client AIClient
	logger *slog.Logger
}

func NewTestWriter(client AIClient, logger *slog.Logger) *TestWriter {
	return &TestWriter{
		client: client,
		logger: logger.With("agent", "test_writer"),
	}
}

func (t *TestWriter) GenerateTests(ctx context.Context, code string, reqs *core.Requirements) (string, error) {
	reqText := formatRequirementsBrief(reqs)

	t.logger.Info("generating test cases", "code_length", len(code))

	prompt := fmt.Sprintf(`%s

Generate comprehensive pytest test cases for the following Python code.

ORIGINAL REQUIREMENTS:
%s

CODE TO TEST:
`+"```python\n%s\n```"+`

Generate complete, executable pytest test cases that:
1. Test all major functions and classes
2. Cover normal cases, edge cases, and error scenarios
3. Are immediately runnable without modification
4. Use proper pytest syntax and assertions
5. Include descriptive test names
6. Include execution results as comments showing what each test should produce

For each test function, add a comment showing the expected execution result, for example:
# Expected Result: Test passes, function returns correct value
# Expected Result: Test passes, exception is raised correctly

Output only the Python test code with execution result comments.`,
		testerSystemMessage, reqText, code)

	content, err := t.client.Complete(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("test generation: %w", err)
	}

	testCode := ExtractCodeBlock(content)
	t.logger.Info("test cases generated", "test_length", len(testCode))
	return testCode, nil
}
