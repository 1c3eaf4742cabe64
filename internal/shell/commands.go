package shell

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dohr-michael/tracker/internal/scenario"
	"github.com/dohr-michael/tracker/internal/tasks"
)

type command struct {
	usage string
	help  string
	run   func(s *Shell, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"add":         {"add task|epic|subtask key=value...", "create an item", cmdAdd},
		"update":      {"update <id> key=value...", "change the given fields of an item", cmdUpdate},
		"get":         {"get <id>", "print an item and record it in history", cmdGet},
		"show":        {"show <id>", "print item details and record it in history", cmdShow},
		"list":        {"list [tasks|epics|subtasks]", "list items by identity", cmdList},
		"subtasks":    {"subtasks <epic-id>", "list the subtasks of an epic", cmdSubTasks},
		"delete":      {"delete <id>", "delete an item (epics take their subtasks)", cmdDelete},
		"clear":       {"clear tasks|epics|subtasks", "delete every item of a kind", cmdClear},
		"history":     {"history", "recently viewed items, oldest first", cmdHistory},
		"prioritized": {"prioritized", "tasks and subtasks by start time", cmdPrioritized},
		"events":      {"events [n]", "last n events (default 20)", cmdEvents},
		"reload":      {"reload", "re-read the config and .env files", cmdReload},
		"help":        {"help", "show this help", cmdHelp},
	}
}

func usageError(name string) error {
	return fmt.Errorf("%w: %s", ErrUsage, commands[name].usage)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid id %q", ErrUsage, arg)
	}
	return id, nil
}

func cmdAdd(s *Shell, args []string) error {
	if len(args) == 0 {
		return usageError("add")
	}
	f, err := scenario.ParseFields(args[1:], s.render.Options().Format)
	if err != nil {
		return err
	}

	kind := strings.ToLower(args[0])
	var id int64
	switch kind {
	case "task":
		id, err = s.m.CreateTask(f.Task(tasks.Task{}, s.defaultDuration))
	case "epic":
		id, err = s.m.CreateEpic(f.Epic(tasks.Epic{}))
	case "subtask":
		if f.EpicID == nil {
			return fmt.Errorf("%w: subtask needs epic=<id>", ErrUsage)
		}
		id, err = s.m.CreateSubTask(f.SubTask(tasks.SubTask{}, s.defaultDuration))
	default:
		return usageError("add")
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "created %s %d\n", kind, id)
	return nil
}

func cmdUpdate(s *Shell, args []string) error {
	if len(args) < 2 {
		return usageError("update")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	f, err := scenario.ParseFields(args[1:], s.render.Options().Format)
	if err != nil {
		return err
	}
	item, err := s.m.Lookup(id)
	if err != nil {
		return err
	}

	switch v := item.(type) {
	case *tasks.Task:
		err = s.m.UpdateTask(id, f.Task(*v, s.defaultDuration))
	case *tasks.Epic:
		err = s.m.UpdateEpic(id, f.Epic(*v))
	case *tasks.SubTask:
		err = s.m.UpdateSubTask(id, f.SubTask(*v, s.defaultDuration))
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "updated %s %d\n", item.ItemKind(), id)
	return nil
}

func cmdGet(s *Shell, args []string) error {
	if len(args) != 1 {
		return usageError("get")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := s.m.GetByID(id)
	if err != nil {
		return err
	}
	return s.render.Items(s.out, []tasks.Item{item})
}

func cmdShow(s *Shell, args []string) error {
	if len(args) != 1 {
		return usageError("show")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	item, err := s.m.GetByID(id)
	if err != nil {
		return err
	}
	return s.render.Item(s.out, item)
}

func cmdList(s *Shell, args []string) error {
	which := "all"
	if len(args) > 0 {
		which = strings.ToLower(args[0])
	}
	switch which {
	case "tasks":
		return s.render.Tasks(s.out, s.m.Tasks())
	case "epics":
		return s.render.Epics(s.out, s.m.Epics())
	case "subtasks":
		return s.render.SubTasks(s.out, s.m.SubTasks())
	case "all":
		var items []tasks.Item
		for _, t := range s.m.Tasks() {
			items = append(items, &t)
		}
		for _, e := range s.m.Epics() {
			items = append(items, &e)
		}
		for _, st := range s.m.SubTasks() {
			items = append(items, &st)
		}
		slices.SortFunc(items, func(a, b tasks.Item) int {
			return cmp.Compare(a.ItemID(), b.ItemID())
		})
		return s.render.Items(s.out, items)
	default:
		return usageError("list")
	}
}

func cmdSubTasks(s *Shell, args []string) error {
	if len(args) != 1 {
		return usageError("subtasks")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	subs, err := s.m.EpicSubTasks(id)
	if err != nil {
		return err
	}
	return s.render.SubTasks(s.out, subs)
}

func cmdDelete(s *Shell, args []string) error {
	if len(args) != 1 {
		return usageError("delete")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	if err := s.m.DeleteByID(id); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "deleted %d\n", id)
	return nil
}

func cmdClear(s *Shell, args []string) error {
	if len(args) != 1 {
		return usageError("clear")
	}
	switch strings.ToLower(args[0]) {
	case "tasks":
		s.m.DeleteAllTasks()
	case "epics":
		s.m.DeleteAllEpics()
	case "subtasks":
		s.m.DeleteAllSubTasks()
	default:
		return usageError("clear")
	}
	fmt.Fprintf(s.out, "cleared %s\n", strings.ToLower(args[0]))
	return nil
}

func cmdHistory(s *Shell, _ []string) error {
	return s.render.Items(s.out, s.m.History())
}

func cmdPrioritized(s *Shell, _ []string) error {
	return s.render.Items(s.out, s.m.PrioritizedTasks())
}

func cmdEvents(s *Shell, args []string) error {
	if s.bus == nil {
		return fmt.Errorf("events are not enabled")
	}
	n := 20
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return usageError("events")
		}
		n = v
	}
	return s.render.Events(s.out, s.bus.History(n))
}

func cmdReload(s *Shell, _ []string) error {
	if s.reloader == nil {
		return fmt.Errorf("reload is not available")
	}
	if err := s.reloader.Reload(); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "config reloaded")
	return nil
}

func cmdHelp(s *Shell, _ []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	slices.Sort(names)

	tw := tabwriter.NewWriter(s.out, 0, 4, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", commands[name].usage, commands[name].help)
	}
	fmt.Fprintln(tw, "quit\tleave the shell")
	fmt.Fprintln(tw, "keys:\ttitle description status start duration epic id")
	return tw.Flush()
}
