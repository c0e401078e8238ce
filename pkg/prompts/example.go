package prompts

// ExampleBlueprintJSON is the worked example embedded in the blueprint prompt.
// It must stay valid against schema.BlueprintSchema.
const ExampleBlueprintJSON = `{
  "platform": {
    "name": "PetPal",
    "tagline": "Care schedules for busy pet owners",
    "description": "PetPal tracks feeding, walks and vet visits for every pet in the household. Owners share duties with family members and get reminders before anything is missed."
  },
  "market_feasibility_analysis": {
    "overall_score": 7.2,
    "metrics": [
      {"label": "Market Size", "score": 8, "description": "Pet ownership keeps growing and owners spend on convenience."},
      {"label": "Competition", "score": 6, "description": "Several apps exist but few handle shared households well."},
      {"label": "Technical Complexity", "score": 7, "description": "Standard mobile and backend work with push notifications."},
      {"label": "Monetization Potential", "score": 7, "description": "Subscriptions plus partnerships with vets and pet stores."}
    ]
  },
  "suggested_improvements": ["Add vet appointment booking", "Support multiple households per pet"],
  "core_features": [
    {"name": "Care schedules", "description": "Recurring feeding, walk and medication tasks per pet."},
    {"name": "Shared duties", "description": "Assign tasks to household members and see who did what."},
    {"name": "Health log", "description": "Record weight, vaccinations and vet notes."}
  ],
  "technical_requirements": {
    "recommended_expertise_level": "Intermediate",
    "development_timeline": "3-4 months",
    "team_size": "2-3 developers",
    "suggested_tech_stack": {
      "frontend": {"framework": "React Native", "state_management": "Zustand"},
      "backend": {"language": "Go", "database": "PostgreSQL", "cache": "Redis"},
      "infrastructure": {"hosting": "Google Cloud Run", "notifications": "Firebase Cloud Messaging"}
    }
  },
  "revenue_model": {
    "primary_streams": ["Premium subscriptions", "Partner referrals"],
    "pricing_structure": "Freemium with monthly and annual premium plans"
  },
  "recommended_pricing_plans": [
    {
      "name": "Free",
      "price": "$0",
      "target": "Single-pet owners",
      "features": ["One pet", "Basic reminders"],
      "limitations": ["No shared household"]
    },
    {
      "name": "Family",
      "price": "$4.99/month",
      "target": "Households sharing pet care",
      "features": ["Unlimited pets", "Shared duties", "Health log"],
      "tag": "Most Popular",
      "additional_benefits": ["Priority support"]
    }
  ],
  "competitive_advantages": ["Built around shared households", "Simple recurring schedules"],
  "potential_challenges": ["Keeping reminders timely across time zones", "Retention after onboarding"],
  "success_metrics": ["Weekly active households", "Free to paid conversion rate"],
  "user_flow_diagram": {
    "description": "From signup to the first completed care task",
    "initialNodes": [
      {
        "id": "1",
        "type": "custom",
        "position": {"x": 250, "y": 0},
        "data": {
          "title": "Sign up",
          "description": "Owner creates an account with email or Google",
          "checklist": [
            {"id": "1-1", "label": "Email signup form", "status": "pending"},
            {"id": "1-2", "label": "Google sign-in", "status": "pending"}
          ]
        }
      },
      {
        "id": "2",
        "type": "custom",
        "position": {"x": 250, "y": 150},
        "data": {
          "title": "Add a pet",
          "description": "Owner enters the pet's name, species and photo",
          "checklist": [{"id": "2-1", "label": "Pet profile form", "status": "pending"}]
        }
      },
      {
        "id": "3",
        "type": "custom",
        "position": {"x": 250, "y": 300},
        "data": {
          "title": "Complete a task",
          "description": "A household member checks off a feeding or walk",
          "checklist": [{"id": "3-1", "label": "Task completion flow", "status": "pending"}]
        }
      }
    ],
    "initialEdges": [
      {"id": "e1-2", "source": "1", "target": "2", "animated": true},
      {"id": "e2-3", "source": "2", "target": "3", "animated": true, "label": "schedule created"}
    ]
  },
  "kanban_tickets": {
    "description": "MVP delivery board",
    "columns": {
      "backlog": {
        "title": "Backlog",
        "tickets": [
          {"id": "T-4", "title": "Vet booking", "description": "Book appointments with partner vets", "priority": "low", "story_points": 8}
        ]
      },
      "todo": {
        "title": "To Do",
        "tickets": [
          {"id": "T-1", "title": "Authentication", "description": "Email and Google sign-in", "priority": "critical", "story_points": 5, "assignee": "backend", "labels": ["auth"]},
          {"id": "T-2", "title": "Pet profiles", "description": "CRUD for pets with photo upload", "priority": "high", "story_points": 3, "labels": ["core"]}
        ]
      },
      "in-progress": {
        "title": "In Progress",
        "tickets": [
          {"id": "T-3", "title": "Reminder scheduler", "description": "Push notifications for due tasks", "priority": "high", "story_points": 8, "assignee": "backend"}
        ]
      },
      "done": {
        "title": "Done",
        "tickets": []
      }
    }
  }
}`
