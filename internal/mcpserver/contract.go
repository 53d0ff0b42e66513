package mcpserver

// RecipeFormatContract describes the recipe document accepted by the
// analyze_recipe tool.
const RecipeFormatContract = `# Wort Recipe Format Contract

A recipe is a YAML (or JSON) document. Ingredient values not given inline are
looked up in the reference data by name.

## Structure

` + "```" + `yaml
name: Pale Ale                     # REQUIRED
start_volume: 7.0                  # REQUIRED, pre-boil volume (gal or L)
final_volume: 5.0                  # REQUIRED, into the fermenter; <= start_volume
grains:                            # REQUIRED, at least one
  - name: Pale Malt 2-row US       # REQUIRED, reference lookup key
    weight: 13.96                  # REQUIRED, lbs or kg, > 0
    grain_type: cereal             # OPTIONAL: cereal (default), dme, lme
    units: imperial                # OPTIONAL: defaults to data.units
    data:                          # OPTIONAL overrides
      color: 1.8                   # degrees Lovibond
      ppg: 37                      # gravity points per pound per gallon
hops:                              # REQUIRED, at least one
  - name: Centennial
    weight: 0.57                   # oz or g
    boil_time: 60                  # REQUIRED, minutes
    hop_type: pellet               # OPTIONAL: pellet (default), whole, plug
    percent_contribution: 100      # OPTIONAL, share of the target IBU
    utilization: glenn_tinseth     # OPTIONAL: glenn_tinseth (default), jackie_rager
    data:
      percent_alpha_acids: 14.0    # percent, 14.0 is 14%
yeast:                             # REQUIRED
  name: Danstar
  data:
    percent_attenuation: 0.75      # fraction between 0 and 1
data:                              # OPTIONAL recipe settings
  percent_brew_house_yield: 0.70   # fraction between 0 and 1
  units: imperial                  # imperial (default) or metric
` + "```" + `

## Rules

1. Names are matched case-insensitively; spaces and
   hyphens match underscores (` + "`" + `Pale Malt 2-row US` + "`" + ` is ` + "`" + `pale_malt_2_row_us` + "`" + `).
2. Inline ` + "`" + `data` + "`" + ` values win over reference data, including an explicit 0.
3. A value missing from both places is an error naming the field.
4. Reference categories are ` + "`" + `grains` + "`" + `, ` + "`" + `hops` + "`" + ` and ` + "`" + `yeast` + "`" + `; use the
   search_ingredients tool to find valid names.
5. Color models: morey (default), morey_hybrid, mosher, daniels,
   daniels_power, noonan_power. Each is only defined over a range of MCU.
`
