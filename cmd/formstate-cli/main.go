// Command formstate-cli drives a collection engine interactively from the
// terminal: load a parameter definition, add and edit option groups, toggle
// optional fields, reorder items, and watch the intents the engine emits.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-formstate/pkg/collection"
	"github.com/goliatone/go-formstate/pkg/labels"
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
)

func main() {
	schemaFlag := flag.String("schema", "schema.yaml", "parameter definition file (JSON or YAML)")
	paramFlag := flag.String("parameter", "", "parameter name (defaults to the only one loaded)")
	baseFlag := flag.String("base", "parameters", "base document path for emitted intents")
	flag.Parse()

	param, err := loadParameter(*schemaFlag, *paramFlag)
	if err != nil {
		log.Fatalf("load schema: %v", err)
	}

	engine := collection.New(param, collection.WithBasePath(*baseFlag))
	provider := labels.Default()

	if err := runLoop(engine, provider); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return
		}
		log.Fatalf("session: %v", err)
	}
}

func loadParameter(path, name string) (paramschema.Parameter, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return paramschema.Parameter{}, err
	}
	dir, file := filepath.Split(abs)

	store, err := paramschema.LoadFS(os.DirFS(dir))
	if err != nil {
		return paramschema.Parameter{}, err
	}
	if store.Empty() {
		return paramschema.Parameter{}, fmt.Errorf("no parameters defined in %s", file)
	}

	if name == "" {
		names := store.Names()
		if len(names) == 1 {
			name = names[0]
		} else {
			if err := survey.AskOne(&survey.Select{Message: "Parameter:", Options: names}, &name); err != nil {
				return paramschema.Parameter{}, err
			}
		}
	}

	param, ok := store.Parameter(name)
	if !ok {
		return paramschema.Parameter{}, fmt.Errorf("parameter %q not defined", name)
	}
	return param, nil
}

func runLoop(engine *collection.Engine, provider labels.Provider) error {
	actions := []string{
		"Add option group",
		"Edit field",
		"Toggle optional field",
		"Delete item",
		"Reorder items",
		"Show values",
		"Quit",
	}

	for {
		var action string
		if err := survey.AskOne(&survey.Select{Message: "Action:", Options: actions}, &action); err != nil {
			return err
		}

		var err error
		switch action {
		case "Add option group":
			err = addGroup(engine, provider)
		case "Edit field":
			err = editField(engine, provider)
		case "Toggle optional field":
			err = toggleOptional(engine, provider)
		case "Delete item":
			err = deleteItem(engine)
		case "Reorder items":
			err = reorderItems(engine)
		case "Show values":
			err = printJSON("values", engine.Values())
		case "Quit":
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func addGroup(engine *collection.Engine, provider labels.Provider) error {
	addable := engine.AddableGroups()
	if len(addable) == 0 {
		fmt.Println("nothing to add")
		return nil
	}

	options := make([]string, len(addable))
	for i, group := range addable {
		options[i] = provider.Label(group.Name, fallbackName(group.DisplayName, group.Name))
	}

	var index int
	if err := askSelect("Add:", options, &index); err != nil {
		return err
	}

	intent, ok := engine.AddItem(addable[index].Name)
	if !ok {
		fmt.Println("no state change")
		return nil
	}
	return printIntent(intent)
}

func editField(engine *collection.Engine, provider labels.Provider) error {
	group, index, ok, err := pickItem(engine)
	if err != nil || !ok {
		return err
	}

	fields := engine.VisibleFields(group, index)
	if len(fields) == 0 {
		fmt.Println("no editable fields")
		return nil
	}
	options := make([]string, len(fields))
	for i, field := range fields {
		options[i] = provider.Label(field.Name, fallbackName(field.DisplayName, field.Name))
	}

	var choice int
	if err := askSelect("Field:", options, &choice); err != nil {
		return err
	}

	var raw string
	if err := survey.AskOne(&survey.Input{Message: options[choice] + ":"}, &raw); err != nil {
		return err
	}

	intent, ok := engine.SetField(group, fields[choice].Name, index, coerce(raw))
	if !ok {
		fmt.Println("no state change")
		return nil
	}
	return printIntent(intent)
}

func toggleOptional(engine *collection.Engine, provider labels.Provider) error {
	group, index, ok, err := pickItem(engine)
	if err != nil || !ok {
		return err
	}

	schema, _ := engine.Parameter().OptionGroup(group)
	var names, display []string
	for _, field := range schema.Values {
		if !engine.Parameter().IsOptionalField(field.Name) {
			continue
		}
		state := "off"
		if engine.OptionalFieldAdded(group, field.Name, index) {
			state = "on"
		}
		names = append(names, field.Name)
		display = append(display, fmt.Sprintf("%s (%s)", provider.Label(field.Name, fallbackName(field.DisplayName, field.Name)), state))
	}
	if len(names) == 0 {
		fmt.Println("no optional fields declared")
		return nil
	}

	var choice int
	if err := askSelect("Toggle:", display, &choice); err != nil {
		return err
	}

	intent, ok := engine.ToggleOptionalField(group, names[choice], index)
	if !ok {
		fmt.Println("no state change")
		return nil
	}
	return printIntent(intent)
}

func deleteItem(engine *collection.Engine) error {
	group, index, ok, err := pickItem(engine)
	if err != nil || !ok {
		return err
	}

	intent, ok := engine.DeleteItem(group, index)
	if !ok {
		fmt.Println("no state change")
		return nil
	}
	return printIntent(intent)
}

func reorderItems(engine *collection.Engine) error {
	if !engine.Parameter().MultipleValues() {
		fmt.Println("parameter is not multi-valued")
		return nil
	}

	group, _, ok, err := pickGroup(engine)
	if err != nil || !ok {
		return err
	}

	items := valuetree.Items(engine.Values(), group)
	if len(items) < 2 {
		fmt.Println("nothing to reorder")
		return nil
	}

	options := make([]string, len(items))
	for i, item := range items {
		encoded, _ := json.Marshal(item)
		options[i] = fmt.Sprintf("[%d] %s", i, encoded)
	}

	// Prompt one position at a time: a multi-select reports answers in option
	// order, which would discard the order the user picked them in.
	reordered := make([]valuetree.Item, 0, len(items))
	remaining := options
	for position := 0; len(remaining) > 0; position++ {
		label := remaining[0]
		if len(remaining) > 1 {
			prompt := &survey.Select{
				Message: fmt.Sprintf("Item for position %d:", position),
				Options: remaining,
			}
			if err := survey.AskOne(prompt, &label); err != nil {
				return err
			}
		}
		index, err := parseItemIndex(label)
		if err != nil {
			return err
		}
		reordered = append(reordered, items[index])
		remaining = removeLabel(remaining, label)
	}

	intent, ok := engine.Reorder(group, reordered)
	if !ok {
		fmt.Println("no state change")
		return nil
	}
	return printIntent(intent)
}

// parseItemIndex recovers the original item index from a "[i] json" label.
func parseItemIndex(label string) (int, error) {
	end := strings.Index(label, "]")
	if end < 1 || !strings.HasPrefix(label, "[") {
		return 0, fmt.Errorf("parse selection %q", label)
	}
	index, err := strconv.Atoi(label[1:end])
	if err != nil {
		return 0, fmt.Errorf("parse selection %q: %w", label, err)
	}
	return index, nil
}

func removeLabel(options []string, chosen string) []string {
	out := make([]string, 0, len(options)-1)
	for _, option := range options {
		if option == chosen {
			continue
		}
		out = append(out, option)
	}
	return out
}

func pickGroup(engine *collection.Engine) (string, int, bool, error) {
	view := engine.View()
	if len(view.Groups) == 0 {
		fmt.Println("no option groups instantiated")
		return "", 0, false, nil
	}
	names := make([]string, len(view.Groups))
	for i, group := range view.Groups {
		names[i] = group.Group.Name
	}

	var choice int
	if err := askSelect("Group:", names, &choice); err != nil {
		return "", 0, false, err
	}
	return names[choice], choice, true, nil
}

func pickItem(engine *collection.Engine) (string, int, bool, error) {
	group, groupIndex, ok, err := pickGroup(engine)
	if err != nil || !ok {
		return "", 0, ok, err
	}

	view := engine.View()
	items := view.Groups[groupIndex].Items
	if len(items) == 1 {
		return group, items[0].Index, true, nil
	}

	options := make([]string, len(items))
	for i, item := range items {
		options[i] = item.Path
	}
	var choice int
	if err := askSelect("Item:", options, &choice); err != nil {
		return "", 0, false, err
	}
	return group, items[choice].Index, true, nil
}

func askSelect(message string, options []string, out *int) error {
	return survey.AskOne(&survey.Select{Message: message, Options: options}, out)
}

// coerce turns terminal input into a typed value: booleans and numbers are
// recognised, everything else stays a string.
func coerce(raw string) any {
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return n
	}
	return raw
}

func fallbackName(declared, raw string) string {
	if declared != "" {
		return declared
	}
	return raw
}

func printIntent(intent collection.Intent) error {
	payload := map[string]any{"path": intent.Path, "kind": string(intent.Kind)}
	if collection.IsUnset(intent.Value) {
		payload["value"] = nil
		payload["unset"] = true
	} else {
		payload["value"] = intent.Value
	}
	return printJSON("intent", payload)
}

func printJSON(label string, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", label, err)
	}
	fmt.Printf("%s: %s\n", label, encoded)
	return nil
}
