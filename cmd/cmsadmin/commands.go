// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/olegiv/cmsadmin/internal/apiclient"
	"github.com/olegiv/cmsadmin/internal/cache"
	"github.com/olegiv/cmsadmin/internal/catalog"
	"github.com/olegiv/cmsadmin/internal/form"
	"github.com/olegiv/cmsadmin/internal/manager"
	"github.com/olegiv/cmsadmin/internal/session"
	"github.com/olegiv/cmsadmin/internal/upload"
	"github.com/olegiv/cmsadmin/internal/validate"
)

func (a *app) resourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resources",
		Short: "List the resources the current role can access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "NAME\tLABEL\tACCESS")
			for _, def := range a.catalog.ForRole(a.role) {
				perm := a.catalog.Permission(a.role, def.Name)
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.Label, perm)
			}
			return tw.Flush()
		},
	}
}

func (a *app) listCmd() *cobra.Command {
	var page, limit int
	var search string

	cmd := &cobra.Command{
		Use:   "list <resource>",
		Short: "Show one page of a resource table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.authorize(args[0], catalog.Read)
			if err != nil {
				return err
			}
			if page < 1 {
				return usagef("--page must be at least 1")
			}
			m, err := a.manager(def, limit)
			if err != nil {
				return err
			}
			defer m.Close()

			ctx := cmd.Context()
			list := m.List()
			switch {
			case search != "":
				list.SetSearch(search)
				list.FlushSearch()
				if page > 1 {
					err = list.SetPage(ctx, page)
				}
			case page > 1:
				err = list.SetPage(ctx, page)
			default:
				err = m.Open(ctx)
			}
			if err != nil {
				return reported(err)
			}
			if st := list.State(); st.Err != nil {
				return reported(st.Err)
			}
			return m.Render(a.stdout)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().IntVar(&limit, "limit", 0, "rows per page (default CMSADMIN_PAGE_SIZE)")
	cmd.Flags().StringVar(&search, "search", "", "server-side search text")
	return cmd
}

func (a *app) getCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "get <resource> <id>",
		Short: "Show one record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.authorize(args[0], catalog.Read)
			if err != nil {
				return err
			}
			m, err := a.manager(def, 0)
			if err != nil {
				return err
			}
			defer m.Close()

			rec, err := m.View(cmd.Context(), args[1])
			if err != nil {
				return reported(err)
			}
			if asJSON {
				return printJSON(a.stdout, rec)
			}
			return printRecord(a.stdout, def, rec)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw record")
	return cmd
}

// draftFlags are the field assignments shared by create and edit.
type draftFlags struct {
	sets    []string
	files   []string
	clear   []string
	preview bool
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.sets, "set", nil, "field=value assignment (repeatable)")
	cmd.Flags().StringArrayVar(&f.files, "file", nil, "field=path or field=URL attachment (repeatable)")
	cmd.Flags().StringArrayVar(&f.clear, "clear", nil, "remove every file from a file field (repeatable)")
	cmd.Flags().BoolVar(&f.preview, "preview", false, "print thumbnail previews before saving")
}

// apply writes the flag values into the open dialog.
func (f *draftFlags) apply(fc *form.Controller) error {
	schema := fc.Schema()
	for _, name := range f.clear {
		field, ok := schema.Field(name)
		if !ok || !field.Kind.IsFile() {
			return usagef("--clear %s: not a file field", name)
		}
		for range fc.State().Draft.Files(name) {
			if err := fc.RemoveFile(name, 0); err != nil {
				return err
			}
		}
	}
	for _, kv := range f.sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return usagef("--set %q: expected field=value", kv)
		}
		field, known := schema.Field(name)
		if !known {
			return usagef("--set %s: unknown field", name)
		}
		value, err := fieldValue(field, raw)
		if err != nil {
			return usagef("--set %s: %v", name, err)
		}
		if err := fc.Set(name, value); err != nil {
			return usagef("--set %s: %v", name, err)
		}
	}
	for _, kv := range f.files {
		name, src, ok := strings.Cut(kv, "=")
		if !ok {
			return usagef("--file %q: expected field=path", kv)
		}
		field, known := schema.Field(name)
		if !known || !field.Kind.IsFile() {
			return usagef("--file %s: not a file field", name)
		}
		ref, err := fileRef(src)
		if err != nil {
			return usagef("--file %s: %v", name, err)
		}
		if field.Kind == form.KindFile {
			err = fc.SelectFile(name, ref)
		} else {
			err = fc.AddFile(name, ref)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// fieldValue converts a command-line string for field's kind. Numbers
// stay strings; the form normalizes them on submit.
func fieldValue(field form.Field, raw string) (any, error) {
	switch field.Kind {
	case form.KindBool:
		if raw == "" {
			return false, nil
		}
		return strconv.ParseBool(raw)
	case form.KindList:
		if strings.TrimSpace(raw) == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out, nil
	default:
		return raw, nil
	}
}

func fileRef(src string) (upload.FileRef, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return upload.Remote(src), nil
	}
	return upload.LocalPath(src)
}

// submit applies flags, optionally previews and saves the dialog.
func (a *app) submit(cmd *cobra.Command, m *manager.Manager[apiclient.Record], flags *draftFlags) error {
	fc := m.Form()
	if err := flags.apply(fc); err != nil {
		_ = fc.Cancel()
		return err
	}
	if flags.preview {
		printPreviews(a.stdout, fc)
	}

	rec, err := fc.Submit(cmd.Context())
	if err != nil {
		var fieldErrs validate.Errors
		if errors.As(err, &fieldErrs) {
			printFieldErrors(a.stderr, fc.Schema(), fieldErrs)
			_ = fc.Cancel()
			return reported(usagef("%d field(s) invalid", len(fieldErrs)))
		}
		_ = fc.Cancel()
		return reported(err)
	}
	if id := rec.ID(); id != "" {
		_, _ = fmt.Fprintln(a.stdout, id)
	}
	return nil
}

func (a *app) createCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "create <resource>",
		Short: "Create a record",
		Example: `  cmsadmin create brands --set name=Acme --set country=DE --file logo=./acme.png
  cmsadmin create properties --set title=Loft --file photos=./a.jpg --file photos=./b.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.authorize(args[0], catalog.Write)
			if err != nil {
				return err
			}
			m, err := a.manager(def, 0)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Create(); err != nil {
				return err
			}
			return a.submit(cmd, m, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	flags := &draftFlags{}
	cmd := &cobra.Command{
		Use:   "edit <resource> <id>",
		Short: "Update a record",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.authorize(args[0], catalog.Write)
			if err != nil {
				return err
			}
			m, err := a.manager(def, 0)
			if err != nil {
				return err
			}
			defer m.Close()

			if err := m.Edit(cmd.Context(), args[1]); err != nil {
				return reported(err)
			}
			return a.submit(cmd, m, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <resource> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := a.authorize(args[0], catalog.Write)
			if err != nil {
				return err
			}
			m, err := a.manager(def, 0)
			if err != nil {
				return err
			}
			defer m.Close()

			var confirmer manager.Confirmer = newPrompt(a.stdin, a.stdout)
			if yes {
				confirmer = manager.AlwaysConfirm
			}
			err = m.Delete(cmd.Context(), args[1], confirmer)
			if errors.Is(err, manager.ErrCanceled) {
				_, _ = fmt.Fprintln(a.stdout, "Canceled.")
			}
			return reported(err)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func (a *app) uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file and print its public URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := upload.LocalPath(args[0])
			if err != nil {
				return usagef("%v", err)
			}
			url, err := a.uploader().Upload(cmd.Context(), ref)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, url)
			return nil
		},
	}
}

func (a *app) sessionCmd() *cobra.Command {
	var reset bool
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or rotate the support chat session id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := cache.New(cache.Config{
				RedisURL:   a.cfg.RedisURL,
				DefaultTTL: a.cfg.SessionTTL,
			}, a.logger)
			defer func() { _ = c.Close() }()

			store := session.New(c, a.cfg.SessionNamespace, a.cfg.SessionTTL, a.logger)
			var id string
			var err error
			if reset {
				id, err = store.Reset(cmd.Context())
			} else {
				id, err = store.Touch(cmd.Context())
			}
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "start a new session")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(a.stdout, "cmsadmin", a.version)
		},
	}
}
