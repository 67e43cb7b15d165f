package auralis

import "testing"

func TestTranscriptPlaceholderReconciled(t *testing.T) {
	t.Parallel()

	var tr transcript
	tr.AppendPlaceholder("...")
	msgs := tr.Messages()
	if len(msgs) != 1 || !msgs[0].Pending || msgs[0].Role != RoleUser {
		t.Fatalf("after placeholder: %+v", msgs)
	}

	tr.ApplyUserMessage("what is the weather")
	msgs = tr.Messages()
	if len(msgs) != 1 {
		t.Fatalf("placeholder not replaced, got %d entries", len(msgs))
	}
	if msgs[0].Pending {
		t.Error("reconciled entry still pending")
	}
	if msgs[0].Text != "what is the weather" {
		t.Errorf("text = %q", msgs[0].Text)
	}
}

func TestTranscriptUserMessageWithoutPlaceholder(t *testing.T) {
	t.Parallel()

	var tr transcript
	tr.ApplyUserMessage("typed message")
	msgs := tr.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Pending {
		t.Fatalf("got %+v", msgs)
	}
}

func TestTranscriptDeltasAccumulate(t *testing.T) {
	t.Parallel()

	var tr transcript
	tr.ApplyUserMessage("hi")
	tr.ApplyTextUpdate("Hello")
	tr.ApplyTextUpdate(", world")
	tr.ApplyTextUpdate("!")

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d entries, want 2", len(msgs))
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Text != "Hello, world!" {
		t.Errorf("assistant entry = %+v", msgs[1])
	}
}

func TestTranscriptDeltaStartsNewTurn(t *testing.T) {
	t.Parallel()

	var tr transcript
	tr.ApplyTextUpdate("First answer.")
	tr.ApplyUserMessage("next question")
	tr.ApplyTextUpdate("Second")
	tr.ApplyTextUpdate(" answer.")

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("got %d entries, want 3", len(msgs))
	}
	if msgs[0].Text != "First answer." || msgs[2].Text != "Second answer." {
		t.Errorf("entries = %+v", msgs)
	}
}

func TestTranscriptMessagesIsSnapshot(t *testing.T) {
	t.Parallel()

	var tr transcript
	tr.ApplyUserMessage("one")
	msgs := tr.Messages()
	msgs[0].Text = "mutated"
	if tr.Messages()[0].Text != "one" {
		t.Error("Messages returned a live slice, want a copy")
	}
}
