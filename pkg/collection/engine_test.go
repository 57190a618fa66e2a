package collection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goliatone/go-formstate/pkg/paramschema"
	"github.com/goliatone/go-formstate/pkg/valuetree"
)

func headerParameter() paramschema.Parameter {
	return paramschema.Parameter{
		Name: "headerParameters",
		Options: []paramschema.OptionGroup{
			{
				Name:        "header",
				DisplayName: "Header",
				Values: []paramschema.FieldSchema{
					{Name: "name", Type: paramschema.FieldTypeString, Default: ""},
					{Name: "value", Type: paramschema.FieldTypeString, Default: ""},
				},
			},
		},
		TypeOptions: &paramschema.TypeOptions{MultipleValues: true, Sortable: true},
	}
}

func authParameter() paramschema.Parameter {
	return paramschema.Parameter{
		Name: "authentication",
		Options: []paramschema.OptionGroup{
			{
				Name: "credentials",
				Values: []paramschema.FieldSchema{
					{Name: "authType", Type: paramschema.FieldTypeOptions, Default: "basic"},
					{
						Name:    "token",
						Type:    paramschema.FieldTypeString,
						Default: "",
						DisplayOptions: &paramschema.DisplayOptions{
							Show: map[string][]any{"authType": {"bearer"}},
						},
					},
				},
			},
		},
		TypeOptions: &paramschema.TypeOptions{OptionalFields: []string{"token"}},
	}
}

func TestAddItem_EndToEndHeaderScenario(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter(), WithBasePath("parameters"))

	intent, ok := engine.AddItem("header")
	if !ok {
		t.Fatalf("first add rejected")
	}
	if intent.Path != "parameters.header" || intent.Kind != IntentSet {
		t.Fatalf("unexpected intent: %+v", intent)
	}

	if _, ok := engine.AddItem("header"); !ok {
		t.Fatalf("second add rejected")
	}

	want := valuetree.Tree{
		"header": []valuetree.Item{
			{"name": "", "value": ""},
			{"name": "", "value": ""},
		},
	}
	if diff := cmp.Diff(want, engine.Values()); diff != "" {
		t.Fatalf("tree after two adds (-want +got):\n%s", diff)
	}

	intent, ok = engine.DeleteItem("header", 0)
	if !ok {
		t.Fatalf("delete rejected")
	}
	if intent.Path != "parameters.header[0]" || !IsUnset(intent.Value) {
		t.Fatalf("unexpected delete intent: %+v", intent)
	}
	if got := valuetree.Items(engine.Values(), "header"); len(got) != 1 {
		t.Fatalf("expected 1 item after delete, got %d", len(got))
	}

	intent, ok = engine.DeleteItem("header", 0)
	if !ok {
		t.Fatalf("last delete rejected")
	}
	if intent.Path != "parameters.header" || !IsUnset(intent.Value) {
		t.Fatalf("last delete must clear the bare group path: %+v", intent)
	}
	if _, present := engine.Values()["header"]; present {
		t.Fatalf("group key should be absent after deleting the last item")
	}
}

func TestDeleteItem_PreservesRelativeOrder(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter())
	for i := 0; i < 3; i++ {
		if _, ok := engine.AddItem("header"); !ok {
			t.Fatalf("add %d rejected", i)
		}
		if _, ok := engine.SetField("header", "name", i, []string{"a", "b", "c"}[i]); !ok {
			t.Fatalf("set %d rejected", i)
		}
	}

	if _, ok := engine.DeleteItem("header", 1); !ok {
		t.Fatalf("delete rejected")
	}

	items := valuetree.Items(engine.Values(), "header")
	if len(items) != 2 || items[0]["name"] != "a" || items[1]["name"] != "c" {
		t.Fatalf("unexpected order after delete: %v", items)
	}
}

func TestReorder_PermutationRoundTrip(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter(), WithBasePath("parameters"))
	for i, name := range []string{"a", "b", "c"} {
		engine.AddItem("header")
		engine.SetField("header", "name", i, name)
	}

	items := valuetree.Items(engine.Values(), "header")
	permuted := []valuetree.Item{items[2], items[0], items[1]}

	intent, ok := engine.Reorder("header", permuted)
	if !ok {
		t.Fatalf("reorder rejected")
	}
	if intent.Kind != IntentReorder || intent.Path != "parameters.header" {
		t.Fatalf("unexpected reorder intent: %+v", intent)
	}

	got := valuetree.Items(engine.Values(), "header")
	for i, name := range []string{"c", "a", "b"} {
		if got[i]["name"] != name {
			t.Fatalf("position %d: want %q, got %v", i, name, got[i]["name"])
		}
	}

	if _, ok := engine.Reorder("header", permuted[:2]); ok {
		t.Fatalf("length mismatch must be rejected")
	}
}

func TestOptionalField_TokenScenario(t *testing.T) {
	t.Parallel()

	engine := New(authParameter(), WithBasePath("parameters"))
	if _, ok := engine.AddItem("credentials"); !ok {
		t.Fatalf("add rejected")
	}

	// authType defaults to basic: token fails its show rule, so it is never
	// offerable.
	if got := engine.OfferableOptionalFields("credentials", -1); len(got) != 0 {
		t.Fatalf("token should not be offerable under basic auth: %v", got)
	}
	if _, ok := engine.SetField("credentials", "authType", -1, "bearer"); !ok {
		t.Fatalf("set authType rejected")
	}
	offerable := engine.OfferableOptionalFields("credentials", -1)
	if len(offerable) != 1 || offerable[0].Name != "token" {
		t.Fatalf("token should be offerable under bearer auth: %v", offerable)
	}

	intent, ok := engine.AddOptionalField("credentials", "token", -1)
	if !ok {
		t.Fatalf("add optional rejected")
	}
	if intent.Path != "parameters.credentials.token" || intent.Value != "" {
		t.Fatalf("unexpected add intent: %+v", intent)
	}
	item := engine.Values()["credentials"].(valuetree.Item)
	if value, present := item["token"]; !present || value != "" {
		t.Fatalf("token should be seeded with its default: %v", item)
	}
	if got := engine.OfferableOptionalFields("credentials", -1); len(got) != 0 {
		t.Fatalf("added field must leave the selector: %v", got)
	}

	intent, ok = engine.RemoveOptionalField("credentials", "token", -1)
	if !ok {
		t.Fatalf("remove optional rejected")
	}
	if !IsUnset(intent.Value) {
		t.Fatalf("remove intent must carry the absent sentinel: %+v", intent)
	}
	item = engine.Values()["credentials"].(valuetree.Item)
	if _, present := item["token"]; present {
		t.Fatalf("token should be absent after removal")
	}
}

func TestToggleOptionalField_IsInvolution(t *testing.T) {
	t.Parallel()

	engine := New(authParameter())
	engine.AddItem("credentials")
	engine.SetField("credentials", "authType", -1, "bearer")

	before := engine.Values()

	if _, ok := engine.ToggleOptionalField("credentials", "token", -1); !ok {
		t.Fatalf("first toggle rejected")
	}
	if !engine.OptionalFieldAdded("credentials", "token", -1) {
		t.Fatalf("field should be tracked after first toggle")
	}
	if _, ok := engine.ToggleOptionalField("credentials", "token", -1); !ok {
		t.Fatalf("second toggle rejected")
	}
	if engine.OptionalFieldAdded("credentials", "token", -1) {
		t.Fatalf("field should be untracked after second toggle")
	}

	if diff := cmp.Diff(before, engine.Values()); diff != "" {
		t.Fatalf("double toggle must restore the tree (-want +got):\n%s", diff)
	}
}

func TestOptionalField_UnknownAndMandatoryAreNoOps(t *testing.T) {
	t.Parallel()

	engine := New(authParameter())
	engine.AddItem("credentials")

	if _, ok := engine.ToggleOptionalField("credentials", "missing", -1); ok {
		t.Fatalf("unknown field must be a no-op")
	}
	if _, ok := engine.AddOptionalField("credentials", "authType", -1); ok {
		t.Fatalf("mandatory field must not be optional-tracked")
	}
	if _, ok := engine.AddOptionalField("stale", "token", -1); ok {
		t.Fatalf("unknown group must be a no-op")
	}
}

func TestSetField_TracksOptionalFieldEdits(t *testing.T) {
	t.Parallel()

	engine := New(authParameter(), WithBasePath("parameters"))
	engine.AddItem("credentials")

	if _, ok := engine.SetField("credentials", "token", -1, "abc"); !ok {
		t.Fatalf("edit rejected")
	}
	if !engine.OptionalFieldAdded("credentials", "token", -1) {
		t.Fatalf("directly edited optional field must be tracked as added")
	}
	if got := engine.OfferableOptionalFields("credentials", -1); len(got) != 0 {
		t.Fatalf("tracked field must leave the selector: %v", got)
	}

	if _, ok := engine.SetField("credentials", "token", -1, Unset); !ok {
		t.Fatalf("clear rejected")
	}
	if engine.OptionalFieldAdded("credentials", "token", -1) {
		t.Fatalf("cleared optional field must be untracked")
	}
	item := engine.Values()["credentials"].(valuetree.Item)
	if _, present := item["token"]; present {
		t.Fatalf("cleared optional field must be absent: %v", item)
	}
}

func TestNestedFixedCollection_ComposedEngine(t *testing.T) {
	t.Parallel()

	parent := paramschema.Parameter{
		Name: "webhook",
		Options: []paramschema.OptionGroup{
			{
				Name: "request",
				Values: []paramschema.FieldSchema{
					{Name: "url", Type: paramschema.FieldTypeString, Default: ""},
					{
						Name:        "headerParameters",
						Type:        paramschema.FieldTypeFixedCollection,
						TypeOptions: &paramschema.FieldOptions{MultipleValues: true},
						Options: []paramschema.OptionGroup{
							{
								Name: "header",
								Values: []paramschema.FieldSchema{
									{Name: "name", Type: paramschema.FieldTypeString, Default: ""},
									{Name: "value", Type: paramschema.FieldTypeString, Default: ""},
								},
							},
						},
					},
				},
			},
		},
	}

	engine := New(parent, WithBasePath("parameters"))
	if _, ok := engine.AddItem("request"); !ok {
		t.Fatalf("parent add rejected")
	}

	item := engine.Values()["request"].(valuetree.Item)
	seeded, ok := item["headerParameters"].(map[string]any)
	if !ok || len(seeded) != 0 {
		t.Fatalf("nested collection must be seeded with an empty tree: %v", item)
	}

	// The nested collection is driven by a second engine over the field's own
	// schema slice, rooted at the field's path.
	group, _ := engine.Parameter().OptionGroup("request")
	field, _ := group.Field("headerParameters")
	child := New(
		paramschema.Parameter{
			Name:        field.Name,
			Options:     field.Options,
			TypeOptions: &paramschema.TypeOptions{MultipleValues: field.MultipleValues()},
		},
		WithBasePath(valuetree.Field("parameters", "request", field.Name, -1)),
	)

	intent, ok := child.AddItem("header")
	if !ok {
		t.Fatalf("child add rejected")
	}
	if intent.Path != "parameters.request.headerParameters.header" {
		t.Fatalf("child intents must nest under the field path: %+v", intent)
	}
	if _, ok := child.SetField("header", "name", 0, "Accept"); !ok {
		t.Fatalf("child edit rejected")
	}

	if _, ok := engine.SetField("request", "headerParameters", -1, child.Values()); !ok {
		t.Fatalf("folding child values back rejected")
	}
	nested := engine.Values()["request"].(valuetree.Item)["headerParameters"].(valuetree.Tree)
	items := valuetree.Items(nested, "header")
	if len(items) != 1 || items[0]["name"] != "Accept" {
		t.Fatalf("nested values not folded back: %v", nested)
	}
}

func TestOptionalState_ReindexedOnDelete(t *testing.T) {
	t.Parallel()

	param := paramschema.Parameter{
		Name: "rules",
		Options: []paramschema.OptionGroup{
			{
				Name: "rule",
				Values: []paramschema.FieldSchema{
					{Name: "pattern", Type: paramschema.FieldTypeString, Default: ""},
					{Name: "note", Type: paramschema.FieldTypeString, Default: "n/a"},
				},
			},
		},
		TypeOptions: &paramschema.TypeOptions{
			MultipleValues: true,
			OptionalFields: []string{"note"},
		},
	}

	engine := New(param)
	for i := 0; i < 3; i++ {
		engine.AddItem("rule")
	}
	if _, ok := engine.AddOptionalField("rule", "note", 2); !ok {
		t.Fatalf("add optional on index 2 rejected")
	}

	if _, ok := engine.DeleteItem("rule", 0); !ok {
		t.Fatalf("delete rejected")
	}

	if engine.OptionalFieldAdded("rule", "note", 2) {
		t.Fatalf("stale index should no longer be tracked")
	}
	if !engine.OptionalFieldAdded("rule", "note", 1) {
		t.Fatalf("tracked state should follow the shifted item")
	}
	items := valuetree.Items(engine.Values(), "rule")
	if _, present := items[1]["note"]; !present {
		t.Fatalf("shifted item should keep its optional value")
	}
}

func TestReplace_DeepCopiesAndRederivesState(t *testing.T) {
	t.Parallel()

	engine := New(authParameter())

	pushed := valuetree.Tree{
		"credentials": valuetree.Item{"authType": "bearer", "token": "abc"},
	}
	engine.Replace(pushed)

	pushed["credentials"].(valuetree.Item)["authType"] = "basic"
	if engine.Values()["credentials"].(valuetree.Item)["authType"] != "bearer" {
		t.Fatalf("replace must deep copy the incoming tree")
	}

	if !engine.OptionalFieldAdded("credentials", "token", -1) {
		t.Fatalf("optional state should be re-derived from incoming values")
	}

	fields := engine.VisibleFields("credentials", -1)
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}
	if diff := cmp.Diff([]string{"authType", "token"}, names); diff != "" {
		t.Fatalf("visible fields (-want +got):\n%s", diff)
	}
}

func TestAddableGroups_SingleOccurrenceEligibility(t *testing.T) {
	t.Parallel()

	param := paramschema.Parameter{
		Name: "options",
		Options: []paramschema.OptionGroup{
			{Name: "proxy", Values: []paramschema.FieldSchema{{Name: "url", Default: ""}}},
			{Name: "timeout", Values: []paramschema.FieldSchema{{Name: "ms", Default: 0}}},
		},
	}

	engine := New(param)
	if got := engine.AddableGroups(); len(got) != 2 {
		t.Fatalf("both groups should start addable, got %d", len(got))
	}

	engine.AddItem("proxy")
	addable := engine.AddableGroups()
	if len(addable) != 1 || addable[0].Name != "timeout" {
		t.Fatalf("instantiated single-occurrence group must leave the selector: %v", addable)
	}

	multi := headerParameter()
	multiEngine := New(multi)
	multiEngine.AddItem("header")
	if got := multiEngine.AddableGroups(); len(got) != 1 {
		t.Fatalf("multi-valued groups stay permanently offerable, got %d", len(got))
	}
}

func TestReadOnly_SuppressesMutations(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter(),
		WithReadOnly(true),
		WithValues(valuetree.Tree{"header": []valuetree.Item{{"name": "a", "value": "1"}}}),
	)

	if _, ok := engine.AddItem("header"); ok {
		t.Fatalf("read-only add must be a no-op")
	}
	if _, ok := engine.DeleteItem("header", 0); ok {
		t.Fatalf("read-only delete must be a no-op")
	}
	if _, ok := engine.SetField("header", "name", 0, "b"); ok {
		t.Fatalf("read-only edit must be a no-op")
	}
	if _, ok := engine.Reorder("header", valuetree.Items(engine.Values(), "header")); ok {
		t.Fatalf("read-only reorder must be a no-op")
	}

	view := engine.View()
	if !view.ReadOnly || len(view.Groups) != 1 {
		t.Fatalf("read-only engine must still render: %+v", view)
	}
}

func TestView_SkipsUnknownGroupsAndOrdersBySchema(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter(), WithValues(valuetree.Tree{
		"header": []valuetree.Item{{"name": "a", "value": "1"}},
		"stale":  []valuetree.Item{{"x": 1}},
	}))

	view := engine.View()
	if len(view.Groups) != 1 || view.Groups[0].Group.Name != "header" {
		t.Fatalf("unknown keys must never render: %+v", view.Groups)
	}
	item := view.Groups[0].Items[0]
	if item.Path != "header[0]" || item.Index != 0 {
		t.Fatalf("unexpected item addressing: %+v", item)
	}

	// Views are snapshots; mutating one must not touch the working copy.
	item.Values["name"] = "mutated"
	if valuetree.Items(engine.Values(), "header")[0]["name"] != "a" {
		t.Fatalf("view aliased the working copy")
	}
}

func TestDeleteItem_AbsentGroupIsNoOp(t *testing.T) {
	t.Parallel()

	engine := New(headerParameter())
	if _, ok := engine.DeleteItem("header", 0); ok {
		t.Fatalf("deleting from an absent group must be a no-op")
	}
	if _, ok := engine.AddItem("stale"); ok {
		t.Fatalf("adding an undeclared group must be a no-op")
	}
}
