package mcpserver

// VerdictRules explains to LLM consumers how verdicts roll up into the
// inspection result.
const VerdictRules = `# Raft Inspection Verdict Rules

Every checklist item carries one verdict: ` + "`pending`" + `, ` + "`passed`" + `, ` + "`failed`" + ` or ` + "`not_applicable`" + `.
New and regenerated checklists start with every item ` + "`pending`" + `.

## Overall verdict

Only **mandatory** items count.

1. ` + "`pending`" + ` while any mandatory item is still pending.
2. ` + "`failed`" + ` if no mandatory item is pending and at least one failed.
3. ` + "`passed`" + ` otherwise.

` + "`not_applicable`" + ` resolves an item without failing it. An empty checklist is ` + "`pending`" + `.

## Progress

Share of items (mandatory or not) whose verdict is not ` + "`pending`" + `, from 0 to 100.

## Sources

| Source | Items |
|---|---|
| ` + "`ledger`" + ` | components listed in the inspection ledger sheet matching the raft serial |
| ` + "`inventory`" + ` | components currently installed in the raft; damaged ones are optional |
| ` + "`functional_tests`" + ` | tests required for the raft launch type |
| ` + "`bulletins`" + ` | service bulletins applicable to the brand and model |
| ` + "`manual`" + ` | manufacturer manual facts: inflation, material, maintenance, capacities |
| ` + "`installed_components`" + ` | generic structural, safety, electrical and documentation checks |

Each non-empty record source starts with a mandatory general check item.

## Editing

Use ` + "`update_checklist_item`" + ` with ` + "`field`" + ` set to ` + "`verdict`" + ` or ` + "`notes`" + `.
Regenerating a checklist discards every verdict and note.
`
