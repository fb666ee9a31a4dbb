package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manav03panchal/plantcare/internal/logging"
	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/runtime"
)

// plantService returns the local or remote plant service.
func plantService() (runtime.PlantService, error) {
	return ctx.Plants()
}

// listPlants lists every plant and logs the malformed ones.
func listPlants(c context.Context) ([]model.Plant, error) {
	svc, err := plantService()
	if err != nil {
		return nil, err
	}
	plants, err := svc.List(c)
	if err != nil {
		return nil, err
	}
	for _, p := range plants {
		if !p.HasValidHealth() {
			logging.MalformedPlant(c, p.ID, "list")
		}
	}
	return plants, nil
}

// resolvePlant finds the plant a command argument names.
func resolvePlant(c context.Context, svc runtime.PlantService, ref string) (model.Plant, error) {
	p, err := runtime.Resolve(c, svc, ref)
	if err != nil {
		return model.Plant{}, err
	}
	if !p.HasValidHealth() {
		logging.MalformedPlant(c, p.ID, "resolve")
	}
	ctx.Debugf(c, "resolved plant", logging.KeyPlantID, p.ID, "ref", ref)
	return p, nil
}

// completePlants completes plant names.
func completePlants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if ctx == nil || ctx.PlantRepo == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	plants, err := ctx.PlantRepo.List()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	prefix := strings.ToLower(toComplete)
	var completions []string
	for _, p := range plants {
		if strings.HasPrefix(strings.ToLower(p.Name), prefix) {
			completions = append(completions, p.Name+"\t"+p.Emoji+" "+p.ShortID())
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeFixed returns a completion function for a fixed set of values.
func completeFixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		var out []string
		for _, v := range values {
			if strings.HasPrefix(v, toComplete) {
				out = append(out, v)
			}
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}
